package flow

import (
	vs "github.com/openvault/vaultstake"
)

func get[T any](arg *T) (T, bool) {
	if arg == nil {
		var zero T
		return zero, false
	}
	return *arg, true
}

// StakeArgs carry the optional knobs of a stake flow. The deposit amount
// is not an argument, it arrives through the input pipeline.
type StakeArgs struct {
	receiver          *vs.Address
	unlimitedApproval *bool
}
type StakeOption func(opts *StakeArgs) error

func (opts *StakeArgs) GetReceiver() (vs.Address, bool) { return get(opts.receiver) }
func (opts *StakeArgs) GetUnlimitedApproval() bool {
	unlimited, ok := get(opts.unlimitedApproval)
	return ok && unlimited
}

func NewStakeArgs(options ...StakeOption) (StakeArgs, error) {
	args := StakeArgs{}
	for _, opt := range options {
		err := opt(&args)
		if err != nil {
			return args, err
		}
	}
	return args, nil
}

// StakeOptionReceiver credits the minted shares to an alternative
// receiver instead of the connector address.
func StakeOptionReceiver(receiver vs.Address) StakeOption {
	return func(opts *StakeArgs) error {
		opts.receiver = &receiver
		return nil
	}
}

// StakeOptionUnlimitedApproval approves the maximum allowance instead of
// the exact deposit amount, so follow-up deposits skip the approval leg.
func StakeOptionUnlimitedApproval() StakeOption {
	return func(opts *StakeArgs) error {
		unlimited := true
		opts.unlimitedApproval = &unlimited
		return nil
	}
}

// UnstakeArgs carry the optional knobs of an unstake flow.
type UnstakeArgs struct {
	receiver *vs.Address
}
type UnstakeOption func(opts *UnstakeArgs) error

func (opts *UnstakeArgs) GetReceiver() (vs.Address, bool) { return get(opts.receiver) }

func NewUnstakeArgs(options ...UnstakeOption) (UnstakeArgs, error) {
	args := UnstakeArgs{}
	for _, opt := range options {
		err := opt(&args)
		if err != nil {
			return args, err
		}
	}
	return args, nil
}

// UnstakeOptionReceiver pays the redeemed assets to an alternative
// receiver instead of the connector address.
func UnstakeOptionReceiver(receiver vs.Address) UnstakeOption {
	return func(opts *UnstakeArgs) error {
		opts.receiver = &receiver
		return nil
	}
}
