package tx

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	vs "github.com/openvault/vaultstake"
)

// Tx wraps a signed EVM transaction ready for broadcast.
type Tx struct {
	EthTx *types.Transaction
}

var _ vs.SignedTx = &Tx{}

// Hash returns the tx hash or id
func (tx Tx) Hash() vs.TxHash {
	if tx.EthTx == nil {
		return vs.TxHash("")
	}
	return vs.TxHash(tx.EthTx.Hash().Hex())
}

// Serialize returns the serialized tx
func (tx Tx) Serialize() ([]byte, error) {
	if tx.EthTx == nil {
		return nil, fmt.Errorf("transaction not initialized")
	}
	return tx.EthTx.MarshalBinary()
}

// Fee returns the fee associated to the tx
func Fee(gasTipCap *big.Int, gasPrice *big.Int, baseFeeUint uint64, gasUsedUint uint64) vs.Amount {
	// from Etherscan: (BaseFee + MaxPriority)*GasUsed
	maxPriority := vs.NewAmountFromBigInt(gasTipCap)
	gasUsed := vs.NewAmountFromUint64(gasUsedUint)
	baseFee := vs.NewAmountFromUint64(baseFeeUint)
	baseFeeAndPriority := baseFee.Add(&maxPriority)
	fee1 := gasUsed.Mul(&baseFeeAndPriority)

	// old gas price * gas used
	price := vs.NewAmountFromBigInt(gasPrice)
	fee2 := price.Mul(&gasUsed)
	if fee1.Cmp(&fee2) < 0 && gasTipCap.Sign() > 0 {
		return fee1
	}
	return fee2
}
