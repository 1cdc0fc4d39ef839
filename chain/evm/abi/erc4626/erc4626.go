package erc4626

import (
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	vs "github.com/openvault/vaultstake"
	evmaddress "github.com/openvault/vaultstake/chain/evm/address"
	"golang.org/x/crypto/sha3"
)

//go:embed abi.json
var abiJson string
var vaultAbi abi.ABI

func NewAbi() abi.ABI {
	a, err := abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		panic(err)
	}
	return a
}

func init() {
	vaultAbi = NewAbi()
}

// MethodID returns the 4 byte selector of a canonical method signature,
// e.g. "approve(address,uint256)".
func MethodID(signature string) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	return hash.Sum(nil)[:4]
}

// MaxAllowance is the largest uint256, used for unlimited approvals.
func MaxAllowance() vs.Amount {
	one := big.NewInt(1)
	max := new(big.Int).Sub(new(big.Int).Lsh(one, 256), one)
	return vs.NewAmountFromBigInt(max)
}

// Approve builds calldata granting spender an allowance over the sender's tokens.
func Approve(spender vs.Address, amount vs.Amount) ([]byte, error) {
	spenderAddress, err := evmaddress.FromHex(spender)
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, MethodID("approve(address,uint256)")...)
	data = append(data, common.LeftPadBytes(spenderAddress.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Int().Bytes(), 32)...)
	return data, nil
}

// BalanceOf builds calldata reading the token balance of an owner.
func BalanceOf(owner vs.Address) ([]byte, error) {
	ownerAddress, err := evmaddress.FromHex(owner)
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, MethodID("balanceOf(address)")...)
	data = append(data, common.LeftPadBytes(ownerAddress.Bytes(), 32)...)
	return data, nil
}

// Allowance builds calldata reading the allowance granted by owner to spender.
func Allowance(owner vs.Address, spender vs.Address) ([]byte, error) {
	ownerAddress, err := evmaddress.FromHex(owner)
	if err != nil {
		return nil, err
	}
	spenderAddress, err := evmaddress.FromHex(spender)
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, MethodID("allowance(address,address)")...)
	data = append(data, common.LeftPadBytes(ownerAddress.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(spenderAddress.Bytes(), 32)...)
	return data, nil
}

// Decimals builds calldata reading the token decimals.
func Decimals() []byte {
	return MethodID("decimals()")
}

// Deposit builds calldata depositing assets into the vault, crediting
// the minted shares to receiver.
func Deposit(assets vs.Amount, receiver vs.Address) ([]byte, error) {
	receiverAddress, err := evmaddress.FromHex(receiver)
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, MethodID("deposit(uint256,address)")...)
	data = append(data, common.LeftPadBytes(assets.Int().Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(receiverAddress.Bytes(), 32)...)
	return data, nil
}

// Redeem builds calldata burning shares held by owner, sending the
// underlying assets to receiver.
func Redeem(shares vs.Amount, receiver vs.Address, owner vs.Address) ([]byte, error) {
	receiverAddress, err := evmaddress.FromHex(receiver)
	if err != nil {
		return nil, err
	}
	ownerAddress, err := evmaddress.FromHex(owner)
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, MethodID("redeem(uint256,address,address)")...)
	data = append(data, common.LeftPadBytes(shares.Int().Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(receiverAddress.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(ownerAddress.Bytes(), 32)...)
	return data, nil
}

// ConvertToAssets builds calldata quoting the underlying value of shares.
func ConvertToAssets(shares vs.Amount) []byte {
	var data []byte
	data = append(data, MethodID("convertToAssets(uint256)")...)
	data = append(data, common.LeftPadBytes(shares.Int().Bytes(), 32)...)
	return data
}

// TotalAssets builds calldata reading the total assets managed by the vault.
func TotalAssets() []byte {
	return MethodID("totalAssets()")
}

// DecodeUint256 decodes a single unsigned 256-bit return word from an
// eth_call result.
func DecodeUint256(data []byte) (vs.Amount, error) {
	if len(data) < 32 {
		return vs.Amount{}, fmt.Errorf("expected a 32 byte word, got %d bytes", len(data))
	}
	value := new(big.Int).SetBytes(data[len(data)-32:])
	return vs.NewAmountFromBigInt(value), nil
}

// Transfer is a decoded ERC-20 Transfer log.
type Transfer struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

type transferData struct {
	Value *big.Int
}

// ParseTransfer decodes a Transfer event log. The from and to addresses
// are indexed topics, only the value lives in the log data.
func ParseTransfer(log types.Log) (*Transfer, error) {
	if len(log.Topics) != 3 {
		return nil, fmt.Errorf("expected 3 topics for a transfer log, got %d", len(log.Topics))
	}
	event := new(transferData)
	if err := vaultAbi.UnpackIntoInterface(event, "Transfer", log.Data); err != nil {
		return nil, err
	}
	return &Transfer{
		From:  common.BytesToAddress(log.Topics[1].Bytes()),
		To:    common.BytesToAddress(log.Topics[2].Bytes()),
		Value: event.Value,
	}, nil
}

func EventByID(topic common.Hash) (*abi.Event, error) {
	return vaultAbi.EventByID(topic)
}
