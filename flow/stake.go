package flow

import (
	"context"
	"sync"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/abi/erc4626"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/openvault/vaultstake/tracker"
	"github.com/sirupsen/logrus"
)

// StakeFlow drives one stake action from amount entry to minted shares.
// The path is Input → (Approving) → Executing → Success; the approval leg
// only appears when the standing allowance cannot cover the amount. One
// flow serves one action. A failed leg stays at its step until the user
// retries or explicitly resets.
type StakeFlow struct {
	session *Session
	args    StakeArgs

	mu       sync.Mutex
	step     Step
	input    vs.AmountInput
	captured vs.Amount
	// one-shot guard: the deposit may chain off the approval exactly
	// once, reset only on return to the input step
	chained  bool
	approval *tracker.Tracker
	deposit  *tracker.Tracker
}

func (f *StakeFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Input returns the last parsed input.
func (f *StakeFlow) Input() vs.AmountInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Amount returns the amount locked at submit, or the current input value
// before that.
func (f *StakeFlow) Amount() vs.Amount {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepInput {
		return f.captured
	}
	return f.input.Value
}

// Approval returns the approval leg tracker, nil when the allowance
// already covered the amount.
func (f *StakeFlow) Approval() *tracker.Tracker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.approval
}

// Deposit returns the deposit leg tracker.
func (f *StakeFlow) Deposit() *tracker.Tracker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deposit
}

// SetAmount runs raw text through the input pipeline against the current
// asset balance: sanitize, parse, floor to a whole token, clamp. Bad
// text parses to zero, it never errors.
func (f *StakeFlow) SetAmount(raw string) vs.AmountInput {
	snap := f.session.snapshots.Current()
	input := vs.NewAmountInput(raw, snap.PrimaryBalance, f.session.vault.GetDecimals())
	f.mu.Lock()
	f.input = input
	f.mu.Unlock()
	return input
}

// SetPercentage selects a percentage of the asset balance. 100 maps to
// exactly the balance with no rounding loss.
func (f *StakeFlow) SetPercentage(pct uint64) vs.AmountInput {
	snap := f.session.snapshots.Current()
	input := vs.NewPercentageInput(pct, snap.PrimaryBalance, f.session.vault.GetDecimals())
	f.mu.Lock()
	f.input = input
	f.mu.Unlock()
	return input
}

// Submit validates and locks the entered amount, then runs the required
// legs. Later edits to the input cannot affect a submitted flow. The
// call blocks until the final leg confirms or a leg fails; on failure
// the flow stays at the failed step.
func (f *StakeFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepInput {
		f.mu.Unlock()
		return errors.Validationf("stake flow already submitted")
	}
	amount := f.input.Value
	if amount.Sign() <= 0 {
		f.mu.Unlock()
		return errors.Validationf("stake amount must be greater than zero")
	}
	snap := f.session.snapshots.Current()
	f.captured = amount
	needsApproval := amount.Cmp(&snap.Allowance) > 0
	if needsApproval {
		f.step = StepApproving
	} else {
		f.step = StepExecuting
	}
	f.mu.Unlock()

	if needsApproval {
		if err := f.runApproval(ctx); err != nil {
			return err
		}
		if !f.claimChain() {
			return nil
		}
		logrus.WithField("amount", amount.String()).Info("approval confirmed, chaining deposit")
	}
	return f.runDeposit(ctx)
}

// Retry re-runs the failed leg with identical call parameters (fresh
// signature and nonce). Nothing retries automatically.
func (f *StakeFlow) Retry(ctx context.Context) error {
	f.mu.Lock()
	step := f.step
	approval, deposit := f.approval, f.deposit
	f.mu.Unlock()

	switch step {
	case StepApproving:
		if approval == nil {
			return errors.Validationf("no approval to retry")
		}
		if _, err := approval.Retry(ctx); err != nil {
			return err
		}
		if !f.claimChain() {
			return nil
		}
		return f.runDeposit(ctx)
	case StepExecuting:
		if deposit == nil {
			return errors.Validationf("no deposit to retry")
		}
		if _, err := deposit.Retry(ctx); err != nil {
			return err
		}
		f.finish()
		return nil
	default:
		return errors.Validationf("nothing to retry from step %s", step)
	}
}

// Reset returns to the input step, the explicit "change amount" action.
// Permitted before any deposit attempt (from input, from a failed
// approval) and after success. A flow whose deposit already went out
// stays put: retry is the only way forward.
func (f *StakeFlow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.step {
	case StepInput, StepSuccess:
	case StepApproving:
		if f.approval != nil && f.approval.State() != tracker.Failed {
			return errors.Validationf("approval still in flight")
		}
	default:
		return errors.Validationf("cannot reset from step %s", f.step)
	}
	f.step = StepInput
	f.input = vs.AmountInput{}
	f.captured = vs.Amount{}
	f.chained = false
	f.approval = nil
	f.deposit = nil
	return nil
}

// StakeResult is the success report of a stake flow.
type StakeResult struct {
	Deposited vs.Amount `json:"deposited"`
	Shares    vs.Amount `json:"shares"`
	// Estimated is set when the share figure came from the vault ratio
	// rather than the receipt logs.
	Estimated bool      `json:"estimated,omitempty"`
	TxHash    vs.TxHash `json:"tx_hash"`
}

// Result reports the outcome after success. Minted shares are read from
// the deposit receipt's share transfer when present, otherwise estimated
// through the vault ratio.
func (f *StakeFlow) Result() (*StakeResult, error) {
	f.mu.Lock()
	step, deposit, captured := f.step, f.deposit, f.captured
	f.mu.Unlock()
	if step != StepSuccess || deposit == nil {
		return nil, errors.Validationf("stake has not succeeded")
	}
	conf, ok := deposit.Confirmation()
	if !ok {
		return nil, errors.Validationf("stake has not succeeded")
	}

	result := &StakeResult{Deposited: captured, TxHash: conf.Hash}
	shareContract := vs.ContractAddress(f.session.vault.VaultContract)
	if movement, ok := conf.TransferTo(shareContract, f.receiver()); ok {
		result.Shares = movement.Amount
		return result, nil
	}
	result.Shares = f.session.estimateShares(captured)
	result.Estimated = true
	return result, nil
}

// claimChain flips the one-shot guard. Only the first caller after a
// confirmed approval may chain the deposit; any duplicate delivery gets
// false. The guard resets only when the flow returns to input.
func (f *StakeFlow) claimChain() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chained {
		return false
	}
	f.chained = true
	f.step = StepExecuting
	return true
}

func (f *StakeFlow) finish() {
	f.mu.Lock()
	f.step = StepSuccess
	f.mu.Unlock()
}

func (f *StakeFlow) receiver() vs.Address {
	if receiver, ok := f.args.GetReceiver(); ok {
		return receiver
	}
	return f.session.connector.Address()
}

func (f *StakeFlow) runApproval(ctx context.Context) error {
	f.mu.Lock()
	amount := f.captured
	f.mu.Unlock()
	if f.args.GetUnlimitedApproval() {
		amount = erc4626.MaxAllowance()
	}
	data, err := erc4626.Approve(vs.Address(f.session.vault.VaultContract), amount)
	if err != nil {
		return errors.Validationf("building approval: %v", err)
	}
	t := f.session.newTracker(vs.CallParams{
		Kind:     vs.TxApprove,
		Contract: vs.ContractAddress(f.session.vault.AssetContract),
		Data:     data,
	})
	f.mu.Lock()
	f.approval = t
	f.mu.Unlock()
	_, err = t.Run(ctx)
	return err
}

func (f *StakeFlow) runDeposit(ctx context.Context) error {
	f.mu.Lock()
	amount := f.captured
	f.mu.Unlock()
	data, err := erc4626.Deposit(amount, f.receiver())
	if err != nil {
		return errors.Validationf("building deposit: %v", err)
	}
	t := f.session.newTracker(vs.CallParams{
		Kind:     vs.TxDeposit,
		Contract: vs.ContractAddress(f.session.vault.VaultContract),
		Data:     data,
	})
	f.mu.Lock()
	f.deposit = t
	f.mu.Unlock()
	if _, err := t.Run(ctx); err != nil {
		return err
	}
	f.finish()
	return nil
}
