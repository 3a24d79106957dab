package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// GatewayError wraps a transport or backend failure talking to the model.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// InvalidResponseError reports a model response that did not match the
// expected structure.
type InvalidResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *InvalidResponseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid %s response: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s response: %s", e.Op, e.Reason)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// UnsupportedError is returned when an operation is refused for the given
// input kind.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s unsupported: %s", e.Op, e.Reason)
}

// DecodeError reports a malformed share token.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("decode share token: %s: %v", e.Reason, e.Err)
	}
	return "decode share token: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure. It is logged and absorbed by
// the stores; callers never see it.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsGateway(err error) bool {
	var target *GatewayError
	return errors.As(err, &target)
}

func IsInvalidResponse(err error) bool {
	var target *InvalidResponseError
	return errors.As(err, &target)
}

func IsUnsupported(err error) bool {
	var target *UnsupportedError
	return errors.As(err, &target)
}

func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
