package tracker

import (
	"sync"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
)

// lockedState guards the mutable lifecycle of a tracker. Every legal
// transition is a method here; nothing mutates state anywhere else.
type lockedState struct {
	sync.Mutex
	state        State
	hash         vs.TxHash
	err          error
	confirmation *client.Confirmation
	onConfirmed  []func(*client.Confirmation)
}

// begin enters Submitting from the given state (Idle on first run,
// Failed on retry), clearing the previous cycle's outcome.
func (l *lockedState) begin(from State) error {
	l.Lock()
	defer l.Unlock()
	if l.state != from {
		if from == Failed {
			return errors.Validationf("can only retry a failed transaction, state is %s", l.state)
		}
		return errors.Validationf("tracker already started, state is %s", l.state)
	}
	l.state = Submitting
	l.hash = ""
	l.err = nil
	return nil
}

// submitted records the handle and moves to AwaitingConfirmation.
func (l *lockedState) submitted(hash vs.TxHash) {
	l.Lock()
	defer l.Unlock()
	if l.state != Submitting {
		return
	}
	l.state = AwaitingConfirmation
	l.hash = hash
}

// fail moves to Failed. Confirmed is terminal, a late failure signal
// cannot leave it.
func (l *lockedState) fail(err error) {
	l.Lock()
	defer l.Unlock()
	if l.state == Confirmed {
		return
	}
	l.state = Failed
	l.err = err
}

// confirm resolves the cycle. The first resolution flips to Confirmed
// and fires the subscribed callbacks outside the lock; any repeated
// confirmation signal is a no-op.
func (l *lockedState) confirm(conf *client.Confirmation) bool {
	l.Lock()
	if l.state != AwaitingConfirmation {
		l.Unlock()
		return false
	}
	l.state = Confirmed
	l.confirmation = conf
	l.err = nil
	callbacks := make([]func(*client.Confirmation), len(l.onConfirmed))
	copy(callbacks, l.onConfirmed)
	l.Unlock()
	for _, fn := range callbacks {
		fn(conf)
	}
	return true
}
