package api

import (
	"errors"
	"fmt"
)

// ErrCannotConnect wraps every transport-level failure. The form shows one
// fixed message for all of them; the underlying cause is only logged.
var ErrCannotConnect = errors.New("cannot connect to the server")

// ServerError is a 4xx rejection. Message is the server's JSON error field,
// shown to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// DegradedError is the 503 partial-success mode on writes: the data was
// saved to the database but downstream sync is deferred. Callers treat it
// as a warning, not a failure: the form resets after a delay instead of
// staying in an error state.
type DegradedError struct {
	Message string
}

func (e *DegradedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "saved, but synchronization is pending"
}

// IsDegraded reports whether err is the 503 partial-success case.
func IsDegraded(err error) bool {
	var d *DegradedError
	return errors.As(err, &d)
}

func wrapTransport(err error) error {
	return fmt.Errorf("%w: %v", ErrCannotConnect, err)
}
