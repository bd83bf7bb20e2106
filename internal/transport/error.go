package transport

import (
	"errors"
	"fmt"
)

// Reason distinguishes how a backend call failed.
type Reason string

const (
	// ReasonNetwork covers connection failures and the per-call timeout:
	// no HTTP response was received at all.
	ReasonNetwork Reason = "network"
	// ReasonStatus covers responses with a non-2xx status code.
	ReasonStatus Reason = "status"
	// ReasonDecode covers 2xx responses whose body failed to decode.
	ReasonDecode Reason = "decode"
)

// Error is the failure type returned by every transport operation.
type Error struct {
	Reason Reason
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("transport %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
	case ReasonDecode:
		return fmt.Sprintf("transport %s: decode response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
