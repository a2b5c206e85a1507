package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers connectivity failures, timeouts and non-2xx responses
	ErrNetwork = errors.New("network failure")
	// ErrValidation covers input rejected before anything is sent
	ErrValidation = errors.New("validation failure")
	// ErrUnauthenticated is returned when a call needs a token and none is set
	ErrUnauthenticated = errors.New("not logged in")
)

// RequestError describes a failed remote call. It matches ErrNetwork with errors.Is.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

// Unwrap returns the transport error, if any
func (e *RequestError) Unwrap() error { return e.Err }

// Is makes every RequestError an ErrNetwork
func (e *RequestError) Is(target error) bool { return target == ErrNetwork }

// ValidationError names the field that was rejected
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError an ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
