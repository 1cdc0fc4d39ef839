package client

import (
	"context"
	"strings"

	vs "github.com/openvault/vaultstake"
)

// Oracle reads current on-chain values. A single call carries a batch;
// one failing read fails the whole batch so callers never see a
// half-fetched view.
type Oracle interface {
	// Read executes the calls and returns one raw return value per call,
	// in order.
	Read(ctx context.Context, calls ...vs.ContractCall) ([][]byte, error)
}

// Submitter broadcasts a signed call and returns the handle to await it
// with. Submission failures are terminal for the attempt; nothing is
// retried automatically.
type Submitter interface {
	Submit(ctx context.Context, tx vs.SignedTx) (vs.TxHash, error)
}

// Watcher resolves a submitted handle to its on-chain outcome. Blocks
// until the configured confirmation depth, the context deadline, or a
// revert. Redelivery is permitted: callers must treat confirmations
// idempotently.
type Watcher interface {
	AwaitConfirmation(ctx context.Context, hash vs.TxHash) (*Confirmation, error)
}

// Connector is the signing capability. Exactly one is injected at
// startup; there is no dynamic connector discovery.
type Connector interface {
	// Address of the account the connector signs for
	Address() vs.Address
	// Sign fills in transaction envelope details (nonce, gas) and signs
	Sign(ctx context.Context, call vs.CallParams) (vs.SignedTx, error)
}

// Movement is one parsed token transfer inside a confirmed transaction.
type Movement struct {
	Contract vs.ContractAddress `json:"contract"`
	From     vs.Address         `json:"from"`
	To       vs.Address         `json:"to"`
	Amount   vs.Amount          `json:"amount"`
}

// Confirmation is the resolved outcome of a submitted transaction.
type Confirmation struct {
	Hash          vs.TxHash   `json:"hash"`
	BlockNumber   uint64      `json:"block_number"`
	BlockTime     int64       `json:"block_time,omitempty"`
	Confirmations int64       `json:"confirmations"`
	GasUsed       uint64      `json:"gas_used"`
	Fee           vs.Amount   `json:"fee"`
	Status        vs.TxStatus `json:"status"`
	// Token transfers decoded from the receipt logs
	Movements []*Movement `json:"movements,omitempty"`
	// Failure reason when the transaction reverted
	Error string `json:"error,omitempty"`
}

func (c *Confirmation) Succeeded() bool {
	return c.Status == vs.TxStatusSuccess
}

// TransferTo returns the first movement paying the given address on the
// given contract, if any. Hex casing is ignored, configured addresses may
// be checksummed while parsed logs are lowercase.
func (c *Confirmation) TransferTo(contract vs.ContractAddress, to vs.Address) (*Movement, bool) {
	for _, m := range c.Movements {
		if strings.EqualFold(string(m.Contract), string(contract)) &&
			strings.EqualFold(string(m.To), string(to)) {
			return m, true
		}
	}
	return nil, false
}
