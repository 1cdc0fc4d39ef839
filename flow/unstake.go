package flow

import (
	"context"
	"sync"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/abi/erc4626"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/openvault/vaultstake/tracker"
)

// UnstakeFlow drives one unstake action: shares in, assets out. There is
// no approval leg, the vault burns its own shares. The path is Input →
// Executing → Success.
type UnstakeFlow struct {
	session *Session
	args    UnstakeArgs

	mu       sync.Mutex
	step     Step
	input    vs.AmountInput
	captured vs.Amount
	// position snapshot locked at submit; the success report prices the
	// shares at this ratio, never at a mid-flight refetch
	basis  vs.BalanceSnapshot
	redeem *tracker.Tracker
}

func (f *UnstakeFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Input returns the last parsed input.
func (f *UnstakeFlow) Input() vs.AmountInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Amount returns the share amount locked at submit, or the current input
// value before that.
func (f *UnstakeFlow) Amount() vs.Amount {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepInput {
		return f.captured
	}
	return f.input.Value
}

// Redeem returns the redeem leg tracker.
func (f *UnstakeFlow) Redeem() *tracker.Tracker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redeem
}

// SetAmount runs raw text through the input pipeline against the current
// share balance: sanitize, parse, floor to a whole token, clamp.
func (f *UnstakeFlow) SetAmount(raw string) vs.AmountInput {
	snap := f.session.snapshots.Current()
	input := vs.NewAmountInput(raw, snap.ShareBalance, f.session.vault.GetDecimals())
	f.mu.Lock()
	f.input = input
	f.mu.Unlock()
	return input
}

// SetPercentage selects a percentage of the share balance. 100 maps to
// exactly the balance with no rounding loss.
func (f *UnstakeFlow) SetPercentage(pct uint64) vs.AmountInput {
	snap := f.session.snapshots.Current()
	input := vs.NewPercentageInput(pct, snap.ShareBalance, f.session.vault.GetDecimals())
	f.mu.Lock()
	f.input = input
	f.mu.Unlock()
	return input
}

// Submit re-validates the share amount against the current snapshot,
// locks it together with the valuation ratio, and runs the redeem to
// confirmation. Validation failures keep the flow at the input step.
func (f *UnstakeFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepInput {
		f.mu.Unlock()
		return errors.Validationf("unstake flow already submitted")
	}
	amount := f.input.Value
	snap := f.session.snapshots.Current()
	if amount.Sign() <= 0 {
		f.mu.Unlock()
		return errors.Validationf("unstake amount must be greater than zero")
	}
	if amount.Cmp(&snap.ShareBalance) > 0 {
		f.mu.Unlock()
		return errors.Validationf("unstake amount %s exceeds share balance %s",
			amount.String(), snap.ShareBalance.String())
	}
	f.captured = amount
	f.basis = snap
	f.step = StepExecuting
	f.mu.Unlock()
	return f.runRedeem(ctx)
}

// Retry re-runs the failed redeem with identical call parameters.
func (f *UnstakeFlow) Retry(ctx context.Context) error {
	f.mu.Lock()
	step, redeem := f.step, f.redeem
	f.mu.Unlock()
	if step != StepExecuting || redeem == nil {
		return errors.Validationf("nothing to retry from step %s", step)
	}
	if _, err := redeem.Retry(ctx); err != nil {
		return err
	}
	f.finish()
	return nil
}

// Reset returns to the input step, the explicit "change amount" action.
// Permitted from input, from a failed redeem and after success; never
// while the redeem is in flight.
func (f *UnstakeFlow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.step {
	case StepInput, StepSuccess:
	case StepExecuting:
		if f.redeem != nil && f.redeem.State() != tracker.Failed {
			return errors.Validationf("redeem still in flight")
		}
	default:
		return errors.Validationf("cannot reset from step %s", f.step)
	}
	f.step = StepInput
	f.input = vs.AmountInput{}
	f.captured = vs.Amount{}
	f.basis = vs.BalanceSnapshot{}
	f.redeem = nil
	return nil
}

// RealizedAssets reports the primary-asset value of the redeemed shares
// at the ratio captured when the user submitted, so the success report
// matches what the user signed off on even if the vault ratio moved
// while the transaction confirmed.
func (f *UnstakeFlow) RealizedAssets() (vs.Amount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepSuccess {
		return vs.Amount{}, errors.Validationf("unstake has not succeeded")
	}
	return f.basis.ValueOf(f.captured), nil
}

func (f *UnstakeFlow) finish() {
	f.mu.Lock()
	f.step = StepSuccess
	f.mu.Unlock()
}

func (f *UnstakeFlow) receiver() vs.Address {
	if receiver, ok := f.args.GetReceiver(); ok {
		return receiver
	}
	return f.session.connector.Address()
}

func (f *UnstakeFlow) runRedeem(ctx context.Context) error {
	f.mu.Lock()
	amount := f.captured
	f.mu.Unlock()
	owner := f.session.connector.Address()
	data, err := erc4626.Redeem(amount, f.receiver(), owner)
	if err != nil {
		return errors.Validationf("building redeem: %v", err)
	}
	t := f.session.newTracker(vs.CallParams{
		Kind:     vs.TxRedeem,
		Contract: vs.ContractAddress(f.session.vault.VaultContract),
		Data:     data,
	})
	f.mu.Lock()
	f.redeem = t
	f.mu.Unlock()
	if _, err := t.Run(ctx); err != nil {
		return err
	}
	f.finish()
	return nil
}
