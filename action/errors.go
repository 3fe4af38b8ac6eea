package action

import "errors"

var (
	// ErrValidation indicates a missing or malformed user-supplied field.
	// Its message is the user-facing explanation.
	ErrValidation = errors.New("action: invalid input")

	// ErrUnknownSpec indicates Build received a spec type it does not handle.
	ErrUnknownSpec = errors.New("action: unknown spec")

	// ErrNilSnapshot indicates Build was called without a wallet snapshot.
	ErrNilSnapshot = errors.New("action: nil wallet snapshot")
)

// validationError carries the user-facing message. It matches ErrValidation
// and, when set, the underlying encoder error.
type validationError struct {
	msg   string
	cause error
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.cause}
}

func invalid(msg string) error {
	return &validationError{msg: msg}
}

func invalidWith(msg string, cause error) error {
	return &validationError{msg: msg, cause: cause}
}
