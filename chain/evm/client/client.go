package client

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/abi/erc4626"
	"github.com/openvault/vaultstake/chain/evm/address"
	evmtx "github.com/openvault/vaultstake/chain/evm/tx"
	vsclient "github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/openvault/vaultstake/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// How often a submitted tx is re-checked while awaiting confirmations.
const confirmationPollInterval = 3 * time.Second

// Client for EVM
type Client struct {
	Chain       *vs.ChainConfig
	EthClient   *ethclient.Client
	limiter     *rate.Limiter
	interceptor *utils.HttpInterceptor
}

var _ vsclient.Oracle = &Client{}
var _ vsclient.Submitter = &Client{}
var _ vsclient.Watcher = &Client{}

// NormalizeNonstandardHeaders patches block headers from providers that
// omit the proof-of-work fields. Some sidechain and dev-node RPCs drop
// sha3Uncles, miner and difficulty, which fails go-ethereum's strict
// header unmarshalling.
func NormalizeNonstandardHeaders(body []byte) []byte {
	bodyStr := string(body)
	if !strings.Contains(bodyStr, "parentHash") || strings.Contains(bodyStr, "sha3Uncles") {
		return body
	}
	patched := strings.Replace(
		bodyStr,
		"\"parentHash\"",
		"\"gasLimit\":\"0x0\",\"difficulty\":\"0x0\",\"miner\":\"0x0000000000000000000000000000000000000000\",\"sha3Uncles\":\"0x0000000000000000000000000000000000000000000000000000000000000000\",\"parentHash\"",
		1,
	)
	return []byte(patched)
}

// NewClient returns a new EVM Client
func NewClient(chain *vs.ChainConfig) (*Client, error) {
	interceptor := utils.NewHttpInterceptor(NormalizeNonstandardHeaders)
	httpClient := &http.Client{
		Transport: interceptor,
	}
	c, err := rpc.DialHTTPWithClient(chain.URL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("dialing url %v: %v", chain.URL, err)
	}
	limiter := chain.Limiter
	if limiter == nil {
		limiter = chain.NewClientLimiter()
	}
	return &Client{
		Chain:       chain,
		EthClient:   ethclient.NewClient(c),
		limiter:     limiter,
		interceptor: interceptor,
	}, nil
}

func (client *Client) wait(ctx context.Context) error {
	return client.limiter.Wait(ctx)
}

// Read executes the calls as one batched eth_call request at the latest
// block, returning one raw return value per call, in order. Any failing
// element fails the whole batch.
func (client *Client) Read(ctx context.Context, calls ...vs.ContractCall) ([][]byte, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	if err := client.wait(ctx); err != nil {
		return nil, errors.Readf("waiting on rate limit: %v", err)
	}
	batch := make([]rpc.BatchElem, len(calls))
	results := make([]hexutil.Bytes, len(calls))
	for i, call := range calls {
		contract, err := address.ContractFromHex(call.Contract)
		if err != nil {
			return nil, errors.Readf("bad contract address '%v': %v", call.Contract, err)
		}
		batch[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{
				map[string]interface{}{
					"to":   contract,
					"data": hexutil.Bytes(call.Data),
				},
				"latest",
			},
			Result: &results[i],
		}
	}
	if err := client.EthClient.Client().BatchCallContext(ctx, batch); err != nil {
		return nil, errors.Readf("batched eth_call: %v", err)
	}
	for i := range batch {
		if batch[i].Error != nil {
			return nil, errors.Readf("eth_call %d of %d: %v", i+1, len(batch), batch[i].Error)
		}
	}
	out := make([][]byte, len(calls))
	for i := range results {
		out[i] = []byte(results[i])
	}
	return out, nil
}

// Submit broadcasts a signed tx
func (client *Client) Submit(ctx context.Context, trans vs.SignedTx) (vs.TxHash, error) {
	if err := client.wait(ctx); err != nil {
		return "", errors.Submitf("waiting on rate limit: %v", err)
	}
	switch tx := trans.(type) {
	case *evmtx.Tx:
		if err := client.EthClient.SendTransaction(ctx, tx.EthTx); err != nil {
			return "", errors.Errorf(CheckError(err), "sending transaction '%v': %v", tx.Hash(), err)
		}
		return tx.Hash(), nil
	default:
		bz, err := trans.Serialize()
		if err != nil {
			return "", errors.Submitf("serializing transaction: %v", err)
		}
		err = client.EthClient.Client().CallContext(ctx, nil, "eth_sendRawTransaction", hexutil.Encode(bz))
		if err != nil {
			return "", errors.Errorf(CheckError(err), "sending transaction '%v': %v", trans.Hash(), err)
		}
		return trans.Hash(), nil
	}
}

// AwaitConfirmation polls a submitted tx until it is buried under the
// configured confirmation depth, then returns its outcome. The context
// deadline bounds the wait; transient RPC failures are retried on the
// next poll rather than surfaced.
func (client *Client) AwaitConfirmation(ctx context.Context, hash vs.TxHash) (*vsclient.Confirmation, error) {
	ticker := time.NewTicker(confirmationPollInterval)
	defer ticker.Stop()
	for {
		confirmation, err := client.checkConfirmation(ctx, hash, client.Chain.ConfirmationsFinal)
		if err != nil {
			return nil, err
		}
		if confirmation != nil {
			return confirmation, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.TransactionTimedOutf("waiting on transaction %s: %v", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// TxInfo looks a submitted tx up once, regardless of depth.
func (client *Client) TxInfo(ctx context.Context, hash vs.TxHash) (*vsclient.Confirmation, error) {
	confirmation, err := client.checkConfirmation(ctx, hash, 0)
	if err != nil {
		return nil, err
	}
	if confirmation == nil {
		return nil, errors.TransactionNotFoundf("transaction %s not found or still pending", hash)
	}
	return confirmation, nil
}

// checkConfirmation looks the tx up once. It returns nil with no error
// while the tx is pending, unpropagated, or not yet deep enough.
func (client *Client) checkConfirmation(ctx context.Context, hash vs.TxHash, minConfirmations int) (*vsclient.Confirmation, error) {
	if err := client.wait(ctx); err != nil {
		return nil, errors.TransactionTimedOutf("waiting on transaction %s: %v", hash, ctx.Err())
	}
	txHash := common.HexToHash(address.TrimPrefixes(string(hash)))
	log := logrus.WithField("tx_hash", hash)

	trans, pending, err := client.EthClient.TransactionByHash(ctx, txHash)
	if err != nil {
		if goerrors.Is(err, ethereum.NotFound) {
			// May not have propagated yet, keep waiting.
			return nil, nil
		}
		log.WithError(err).Warn("could not fetch tx by hash")
		return nil, nil
	}
	if pending {
		return nil, nil
	}

	receipt, err := client.EthClient.TransactionReceipt(ctx, txHash)
	if err != nil {
		if !goerrors.Is(err, ethereum.NotFound) {
			log.WithError(err).Warn("could not fetch tx receipt")
		}
		return nil, nil
	}
	// if no receipt, tx has 0 confirmations
	if receipt == nil {
		return nil, nil
	}

	minedHeader, err := client.EthClient.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		// retry once with response normalization for nonstandard providers
		client.interceptor.Enable()
		minedHeader, err = client.EthClient.HeaderByNumber(ctx, receipt.BlockNumber)
		client.interceptor.Disable()
		if err != nil {
			log.WithError(err).Warn("could not fetch mined header")
			return nil, nil
		}
	}
	latestHeader, err := client.EthClient.HeaderByNumber(ctx, nil)
	if err != nil {
		client.interceptor.Enable()
		latestHeader, err = client.EthClient.HeaderByNumber(ctx, nil)
		client.interceptor.Disable()
		if err != nil {
			log.WithError(err).Warn("could not fetch latest header")
			return nil, nil
		}
	}
	confirmations := latestHeader.Number.Int64() - receipt.BlockNumber.Int64()
	if confirmations < int64(minConfirmations) {
		return nil, nil
	}

	var baseFee uint64
	if minedHeader.BaseFee != nil {
		baseFee = minedHeader.BaseFee.Uint64()
	}
	result := &vsclient.Confirmation{
		Hash:          hash,
		BlockNumber:   receipt.BlockNumber.Uint64(),
		BlockTime:     int64(minedHeader.Time),
		Confirmations: confirmations,
		GasUsed:       receipt.GasUsed,
		Fee:           evmtx.Fee(trans.GasTipCap(), trans.GasPrice(), baseFee, receipt.GasUsed),
		Status:        vs.TxStatusSuccess,
	}
	if receipt.Status == 0 {
		result.Status = vs.TxStatusFailure
		// Receipts carry no revert reason, the tracker reports the status.
		result.Error = "execution reverted"
	}

	for _, entry := range receipt.Logs {
		if len(entry.Topics) == 0 {
			continue
		}
		event, _ := erc4626.EventByID(entry.Topics[0])
		if event == nil || event.RawName != "Transfer" {
			continue
		}
		transfer, err := erc4626.ParseTransfer(*entry)
		if err != nil {
			log.WithError(err).Warn("could not parse transfer log")
			continue
		}
		result.Movements = append(result.Movements, &vsclient.Movement{
			Contract: vs.ContractAddress(strings.ToLower(entry.Address.String())),
			From:     vs.Address(strings.ToLower(transfer.From.String())),
			To:       vs.Address(strings.ToLower(transfer.To.String())),
			Amount:   vs.NewAmountFromBigInt(transfer.Value),
		})
	}
	return result, nil
}

// NativeBalance fetches the gas asset balance of an address.
func (client *Client) NativeBalance(ctx context.Context, addr vs.Address) (vs.Amount, error) {
	zero := vs.NewAmountFromUint64(0)
	if err := client.wait(ctx); err != nil {
		return zero, errors.Readf("waiting on rate limit: %v", err)
	}
	targetAddr, err := address.FromHex(addr)
	if err != nil {
		return zero, errors.Readf("bad address '%v': %v", addr, err)
	}
	balance, err := client.EthClient.BalanceAt(ctx, targetAddr, nil)
	if err != nil {
		return zero, errors.Readf("failed to get balance for '%v': %v", addr, err)
	}
	return vs.NewAmountFromBigInt(balance), nil
}
