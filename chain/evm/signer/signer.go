package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/address"
	evmclient "github.com/openvault/vaultstake/chain/evm/client"
	evmtx "github.com/openvault/vaultstake/chain/evm/tx"
	vsclient "github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/sirupsen/logrus"
)

// Signer holds the owner key in memory and turns call parameters into
// signed EVM transactions. Reference implementation to sign transactions
// - not meant for production key custody.
type Signer struct {
	chain      *vs.ChainConfig
	cfg        *vs.ConnectorConfig
	client     *evmclient.Client
	privateKey *ecdsa.PrivateKey
	address    vs.Address
}

var _ vsclient.Connector = &Signer{}

func New(chain *vs.ChainConfig, cfg *vs.ConnectorConfig, client *evmclient.Client) (*Signer, error) {
	secret, err := cfg.PrivateKey.Load()
	if err != nil {
		return nil, fmt.Errorf("loading private key: %v", err)
	}
	secret = address.TrimPrefixes(strings.TrimSpace(secret))
	ecdsaKey, err := crypto.HexToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %v", err)
	}
	addr, err := address.FromPublicKey(crypto.CompressPubkey(&ecdsaKey.PublicKey))
	if err != nil {
		return nil, err
	}
	if cfg.Address != "" && !strings.EqualFold(cfg.Address, string(addr)) {
		return nil, fmt.Errorf("configured address %s does not match key address %s", cfg.Address, addr)
	}
	return &Signer{
		chain:      chain,
		cfg:        cfg,
		client:     client,
		privateKey: ecdsaKey,
		address:    addr,
	}, nil
}

func (s *Signer) Address() vs.Address {
	return s.address
}

// Sign fills in the transaction envelope and signs the call with the
// owner key. The worst-case fee spend is checked against the configured
// limit before anything is signed.
func (s *Signer) Sign(ctx context.Context, call vs.CallParams) (vs.SignedTx, error) {
	nonce, err := s.client.GetNonce(ctx, s.address)
	if err != nil {
		return nil, errors.Submitf("could not lookup nonce: %v", err)
	}
	gasTipCap, gasFeeCap, err := s.client.SuggestFees(ctx, s.cfg.Priority)
	if err != nil {
		return nil, errors.Submitf("could not suggest gas fees: %v", err)
	}
	gasLimit, err := s.client.EstimateCallGas(ctx, s.address, call)
	if err != nil {
		logrus.WithError(err).WithField("kind", call.Kind).Warn("falling back to default gas limit")
		gasLimit = s.cfg.GasLimitDefault
	}

	maxFeeSpend := vs.NewAmountFromBigInt(new(big.Int).Mul(gasFeeCap, new(big.Int).SetUint64(gasLimit)))
	if err := vs.CheckFeeLimit(maxFeeSpend, s.chain); err != nil {
		return nil, errors.Submitf("%v", err)
	}

	contract, err := address.ContractFromHex(call.Contract)
	if err != nil {
		return nil, errors.Submitf("bad contract address '%v': %v", call.Contract, err)
	}
	chainId := big.NewInt(s.chain.ChainID)
	ethTx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainId,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        &contract,
		Value:     call.Value.Int(),
		Data:      call.Data,
	})
	signed, err := types.SignTx(ethTx, types.LatestSignerForChainID(chainId), s.privateKey)
	if err != nil {
		return nil, errors.Submitf("signing transaction: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"kind":      call.Kind,
		"nonce":     nonce,
		"gas_limit": gasLimit,
	}).Debug("signed tx")
	return &evmtx.Tx{EthTx: signed}, nil
}
