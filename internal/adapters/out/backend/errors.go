package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable marks transport failures: timeouts, refused
	// connections, unreadable responses.
	ErrBackendUnavailable = errors.New("backend is unavailable")

	// ErrMalformedOrder marks an order payload that cannot be turned into an order.
	ErrMalformedOrder = errors.New("malformed order")
)

// BackendError is a non-2xx answer from the backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// MalformedOrderError says why a payload was rejected.
type MalformedOrderError struct {
	Reason string
	Cause  error
}

func (e *MalformedOrderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedOrder, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedOrder, e.Reason)
}

func (e *MalformedOrderError) Unwrap() error {
	return ErrMalformedOrder
}

func malformed(reason string, cause error) error {
	return &MalformedOrderError{Reason: reason, Cause: cause}
}
