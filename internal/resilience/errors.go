package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransientError marks an error as safe to retry. The fetch layer wraps
// connect/read timeouts in it; everything else fails the unit outright.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as transient.
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

// PermanentError marks an error that must never be retried, such as a
// non-2xx HTTP status. The resource is treated as truly absent.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err as permanent.
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

// StatusError is the permanent failure produced by a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.URL)
}

// IsTransient reports whether err should be retried. Only timeouts
// qualify: an explicit TransientError in the chain, a net.Error that
// timed out, or a context deadline from the per-request timeout. A
// PermanentError in the chain always wins.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pe *PermanentError
	if errors.As(err, &pe) {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
