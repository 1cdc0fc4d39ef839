// Package tracker owns one submit-then-confirm transaction cycle: a
// four-state machine wrapping a single contract call, independent of
// which call it carries.
package tracker

import (
	"context"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/sirupsen/logrus"
)

// State of one tracked transaction.
type State string

const (
	Idle                 State = "idle"
	Submitting           State = "submitting"
	AwaitingConfirmation State = "awaiting-confirmation"
	Confirmed            State = "confirmed"
	Failed               State = "failed"
)

// Handle is the externally visible record of a tracked transaction.
// Owned by the Tracker that produced it, never shared between trackers.
type Handle struct {
	Kind   vs.TxKind `json:"kind"`
	State  State     `json:"state"`
	TxHash vs.TxHash `json:"tx_hash,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Tracker drives exactly one transaction through
// Idle -> Submitting -> AwaitingConfirmation -> Confirmed | Failed.
// Confirmed is terminal: repeated confirmation signals are no-ops and
// no transition leaves it. A failed cycle may be retried with identical
// call parameters. Safe to instantiate many trackers concurrently; each
// owns its own handle.
type Tracker struct {
	lock lockedState
	call vs.CallParams

	connector client.Connector
	submitter client.Submitter
	watcher   client.Watcher

	// cap on how long a confirmation may take before failing the cycle
	timeout time.Duration
}

func New(
	call vs.CallParams,
	connector client.Connector,
	submitter client.Submitter,
	watcher client.Watcher,
	timeout time.Duration,
) *Tracker {
	t := &Tracker{
		call:      call,
		connector: connector,
		submitter: submitter,
		watcher:   watcher,
		timeout:   timeout,
	}
	t.lock.state = Idle
	return t
}

// OnConfirmed subscribes to the transition into Confirmed. Callbacks run
// outside the tracker lock, exactly once per tracker. Snapshot
// invalidation and step chaining hang off this hook.
func (t *Tracker) OnConfirmed(fn func(*client.Confirmation)) {
	t.lock.Lock()
	t.lock.onConfirmed = append(t.lock.onConfirmed, fn)
	t.lock.Unlock()
}

func (t *Tracker) State() State {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lock.state
}

// Handle returns a copy of the current lifecycle record.
func (t *Tracker) Handle() Handle {
	t.lock.Lock()
	defer t.lock.Unlock()
	h := Handle{
		Kind:   t.call.Kind,
		State:  t.lock.state,
		TxHash: t.lock.hash,
	}
	if t.lock.err != nil {
		h.Error = t.lock.err.Error()
	}
	return h
}

// Confirmation returns the resolved outcome once Confirmed.
func (t *Tracker) Confirmation() (*client.Confirmation, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.lock.state != Confirmed {
		return nil, false
	}
	return t.lock.confirmation, true
}

// Err returns the failure of the last cycle, if any.
func (t *Tracker) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lock.err
}

// Run executes the full cycle: sign, submit, await confirmation. Only
// valid from Idle; a tracker never runs two cycles at once.
func (t *Tracker) Run(ctx context.Context) (*client.Confirmation, error) {
	if err := t.lock.begin(Idle); err != nil {
		return nil, err
	}
	return t.run(ctx)
}

// Retry re-runs a failed cycle with the identical call parameters.
// Nothing is ever retried automatically; this is the explicit user
// action. Only valid from Failed.
func (t *Tracker) Retry(ctx context.Context) (*client.Confirmation, error) {
	if err := t.lock.begin(Failed); err != nil {
		return nil, err
	}
	return t.run(ctx)
}

func (t *Tracker) run(ctx context.Context) (*client.Confirmation, error) {
	log := logrus.WithFields(logrus.Fields{
		"kind":     t.call.Kind,
		"contract": t.call.Contract,
	})

	signed, err := t.connector.Sign(ctx, t.call)
	if err != nil {
		err = asSubmitError("could not sign", err)
		t.lock.fail(err)
		return nil, err
	}
	hash, err := t.submitter.Submit(ctx, signed)
	if err != nil {
		err = asSubmitError("could not broadcast", err)
		t.lock.fail(err)
		return nil, err
	}
	t.lock.submitted(hash)
	log = log.WithField("hash", hash)
	log.Info("submitted tx")

	waitCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	conf, err := t.watcher.AwaitConfirmation(waitCtx, hash)
	if err != nil {
		err = asConfirmationError(hash, err)
		t.lock.fail(err)
		return nil, err
	}
	if !conf.Succeeded() {
		err = errors.Confirmationf("transaction %s reverted: %s", hash, conf.Error)
		t.lock.fail(err)
		return nil, err
	}
	if first := t.lock.confirm(conf); !first {
		// late duplicate resolution, terminal state already reached
		log.Debug("dropping duplicate confirmation")
		conf, _ = t.Confirmation()
		return conf, nil
	}
	log.WithField("confirmations", conf.Confirmations).Info("confirmed tx")
	return conf, nil
}

// asSubmitError keeps an already classified status, otherwise wraps
// into the submit category.
func asSubmitError(action string, err error) error {
	if errors.StatusOf(err) != errors.UnknownError {
		return err
	}
	return errors.Submitf("%s: %v", action, err)
}

func asConfirmationError(hash vs.TxHash, err error) error {
	if errors.StatusOf(err) != errors.UnknownError {
		return err
	}
	return errors.Confirmationf("awaiting %s: %v", hash, err)
}
