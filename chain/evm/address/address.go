package address

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	vs "github.com/openvault/vaultstake"
)

// FromPublicKey returns the address controlled by a secp256k1 public key.
// Both compressed (33 byte) and uncompressed (65 byte) keys are accepted.
func FromPublicKey(publicKeyBytes []byte) (vs.Address, error) {
	var publicKey *ecdsa.PublicKey
	var err error
	if len(publicKeyBytes) == 33 {
		publicKey, err = crypto.DecompressPubkey(publicKeyBytes)
		if err != nil {
			return vs.Address(""), errors.New("invalid k256 public key")
		}
	} else {
		publicKey, err = crypto.UnmarshalPubkey(publicKeyBytes)
		if err != nil {
			return vs.Address(""), err
		}
	}

	address := crypto.PubkeyToAddress(*publicKey).Hex()
	// Lowercase the address is our normalized format
	return vs.Address(strings.ToLower(address)), nil
}

// FromHex returns a go-ethereum Address decoded from a hex string address.
func FromHex(address vs.Address) (common.Address, error) {
	str := TrimPrefixes(string(address))

	// HexToAddress from go-ethereum doesn't handle any error case
	// We wrap it just in case we need to handle some errors in the future
	return common.HexToAddress(str), nil
}

// ContractFromHex returns a go-ethereum Address decoded from a contract address.
func ContractFromHex(contract vs.ContractAddress) (common.Address, error) {
	return FromHex(vs.Address(contract))
}

func TrimPrefixes(addressOrTxHash string) string {
	return strings.TrimPrefix(addressOrTxHash, "0x")
}
