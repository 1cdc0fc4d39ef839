package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/address"
	"github.com/shopspring/decimal"
)

// Absolute gas limit for vault contract calls, for safety.
const maxContractGasLimit = 500_000

func (client *Client) GetNonce(ctx context.Context, from vs.Address) (uint64, error) {
	fromAddr, err := address.FromHex(from)
	if err != nil {
		return 0, fmt.Errorf("bad from address '%v': %v", from, err)
	}
	if err := client.wait(ctx); err != nil {
		return 0, err
	}
	nonce, err := client.EthClient.NonceAt(ctx, fromAddr, nil)
	if err != nil {
		return 0, err
	}
	return nonce, nil
}

// SuggestFees returns the gas caps for a new tx: the suggested tip
// scaled by the fee priority, and the fee cap from the latest base fee,
// raised to the tip when it would fall under it.
func (client *Client) SuggestFees(ctx context.Context, priority vs.GasFeePriority) (*big.Int, *big.Int, error) {
	if err := client.wait(ctx); err != nil {
		return nil, nil, err
	}
	latestHeader, err := client.EthClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	gasTipCap, err := client.EthClient.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, err
	}
	multiplier, err := priority.GetDefault()
	if err != nil {
		return nil, nil, err
	}
	// should only multiply one cap, not both.
	gasTipCap = decimal.NewFromBigInt(gasTipCap, 0).Mul(multiplier).BigInt()

	gasFeeCap := new(big.Int)
	if latestHeader.BaseFee != nil {
		gasFeeCap.Set(latestHeader.BaseFee)
	}
	if gasFeeCap.Cmp(gasTipCap) < 0 {
		// increase max fee cap to accomodate tip if needed
		gasFeeCap.Set(gasTipCap)
	}
	return gasTipCap, gasFeeCap, nil
}

// EstimateCallGas simulates the call to size its gas limit, probing
// with a high limit used for the estimation only.
func (client *Client) EstimateCallGas(ctx context.Context, from vs.Address, call vs.CallParams) (uint64, error) {
	zero := big.NewInt(0)
	fromAddr, err := address.FromHex(from)
	if err != nil {
		return 0, fmt.Errorf("bad from address '%v': %v", from, err)
	}
	contract, err := address.ContractFromHex(call.Contract)
	if err != nil {
		return 0, fmt.Errorf("bad contract address '%v': %v", call.Contract, err)
	}
	if err := client.wait(ctx); err != nil {
		return 0, err
	}
	msg := ethereum.CallMsg{
		From: fromAddr,
		To:   &contract,
		// use a high limit just for the estimation
		Gas:        8_000_000,
		GasPrice:   zero,
		GasFeeCap:  zero,
		GasTipCap:  zero,
		Value:      call.Value.Int(),
		Data:       call.Data,
		AccessList: types.AccessList{},
	}
	gasLimit, err := client.EthClient.EstimateGas(ctx, msg)
	if err != nil && strings.Contains(err.Error(), "insufficient funds") {
		// try getting gas estimate without sending funds
		msg.Value = zero
		gasLimit, err = client.EthClient.EstimateGas(ctx, msg)
	} else if err != nil && strings.Contains(err.Error(), "less than the block's baseFeePerGas") {
		// this estimate does not work with hardhat -> use defaults
		return maxContractGasLimit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not simulate tx: %v", err)
	}
	// Token gas spends can come in slightly over simulation.
	gasLimit += 1_000
	if gasLimit > maxContractGasLimit {
		gasLimit = maxContractGasLimit
	}
	return gasLimit, nil
}
