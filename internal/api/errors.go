package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a backend rejection: any non-2xx response.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// TransportError means the request never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means a 2xx body was not the JSON the caller expected.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind classifies a failure for callers that branch on its origin.
type Kind int

const (
	KindNone Kind = iota
	KindRejection
	KindTransport
	KindDecode
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRejection:
		return "rejection"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "other"
	}
}

// Classify reports which branch of the taxonomy err belongs to.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var rejection *Error
	if errors.As(err, &rejection) {
		return KindRejection
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return KindTransport
	}
	var decode *DecodeError
	if errors.As(err, &decode) {
		return KindDecode
	}
	return KindOther
}

// AsError extracts a backend rejection from err.
func AsError(err error) (*Error, bool) {
	var rejection *Error
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// IsUnauthorized reports a 401 rejection.
func IsUnauthorized(err error) bool {
	rejection, ok := AsError(err)
	return ok && rejection.Status == http.StatusUnauthorized
}

// Describe renders err for display. Backend rejections show their detail text.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if rejection, ok := AsError(err); ok {
		return "request failed: " + rejection.Detail
	}
	return "request failed: " + err.Error()
}
