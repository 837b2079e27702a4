package payment

import "errors"

// ErrProcessor marks failures (including timeouts) of the upstream payment
// API. No local state is written when it is returned.
var ErrProcessor = errors.New("payment processor error")

// ValidationError rejects bad input before the processor is contacted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationError(msg string) error {
	return &ValidationError{Msg: msg}
}
