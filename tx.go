package vaultstake

// Address is an account address on the chain, either sender or recipient
type Address string

// ContractAddress is a smart contract address
type ContractAddress Address

// TxHash is a submitted transaction's hash, the handle used to await it
type TxHash string

// TxStatus is the status of a tx on chain, currently success or failure.
type TxStatus uint8

// TxStatus values
const (
	TxStatusSuccess TxStatus = 0
	TxStatusFailure TxStatus = 1
)

// TxKind identifies which contract call a transaction carries.
type TxKind string

const (
	TxApprove TxKind = "approve"
	TxDeposit TxKind = "deposit"
	TxRedeem  TxKind = "redeem"
)

// ContractCall is one read against a contract: the target plus the
// ABI-encoded calldata. Reads are batched where possible.
type ContractCall struct {
	Contract ContractAddress
	Data     []byte
}

// CallParams describes a state-changing call before signing. Amounts
// reach this boundary exclusively as base-unit integers.
type CallParams struct {
	Kind     TxKind
	Contract ContractAddress
	Data     []byte
	// Native value attached to the call; zero for all vault operations.
	Value Amount
}

// SignedTx is a signed transaction ready for broadcast.
type SignedTx interface {
	Hash() TxHash
	Serialize() ([]byte, error)
}
