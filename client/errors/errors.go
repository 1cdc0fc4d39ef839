package errors

import (
	goerrors "errors"
	"fmt"
)

type Status string

// A locally rejected amount: zero, unknown balance, or over-balance at submit time
const ValidationError Status = "ValidationError"

// The read oracle was unreachable; previously read values may be stale
const ReadError Status = "ReadError"

// Signing or broadcasting was rejected before the transaction reached the chain
const SubmitError Status = "SubmitError"

// The transaction reached the chain but reverted or could not be confirmed
const ConfirmationError Status = "ConfirmationError"

// A transaction failed to submit because it already exists
const TransactionExists Status = "TransactionExists"

// The transaction could not be found on chain
const TransactionNotFound Status = "TransactionNotFound"

// deadline exceeded and transaction can no longer be accepted
const TransactionTimedOut Status = "TransactionTimedOut"

// A transaction terminally failed due to no balance
const NoBalance Status = "NoBalance"

// A network error occured -- there may be nothing wrong with the transaction
const NetworkError Status = "NetworkError"

// No outcome for this error known
const UnknownError Status = "UnknownError"

type Error struct {
	Status  Status
	Message string
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func Errorf(status Status, format string, args ...interface{}) error {
	return &Error{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when an amount fails local validation and must not be submitted.
func Validationf(format string, args ...interface{}) error {
	return &Error{
		Status:  ValidationError,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when the read oracle cannot be reached or returns malformed data.
func Readf(format string, args ...interface{}) error {
	return &Error{
		Status:  ReadError,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when signing or broadcasting fails before the chain accepts the tx.
func Submitf(format string, args ...interface{}) error {
	return &Error{
		Status:  SubmitError,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when a submitted transaction reverts on chain.
func Confirmationf(format string, args ...interface{}) error {
	return &Error{
		Status:  ConfirmationError,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used to indicate that the transaction already exists on chain,
// when attempting to submit.
func TransactionExistsf(format string, args ...interface{}) error {
	return &Error{
		Status:  TransactionExists,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when a transaction is not found on chain.
func TransactionNotFoundf(format string, args ...interface{}) error {
	return &Error{
		Status:  TransactionNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Used when waiting on a transaction exceeded the confirmation deadline.
func TransactionTimedOutf(format string, args ...interface{}) error {
	return &Error{
		Status:  TransactionTimedOut,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusOf extracts the Status from anywhere in a wrapped chain,
// defaulting to UnknownError.
func StatusOf(err error) Status {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Status
	}
	return UnknownError
}

// IsConfirmationFailure reports whether the error belongs to the
// confirmation category, timeouts included.
func IsConfirmationFailure(err error) bool {
	switch StatusOf(err) {
	case ConfirmationError, TransactionTimedOut:
		return true
	}
	return false
}
