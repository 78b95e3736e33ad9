// Package errorsx classifies failures of the query flow into a small set of
// kinds, each carrying the HTTP status and the message shown to the client.
package errorsx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a short machine-readable error classification.
type Kind string

const (
	KindMissingInput             Kind = "missing_input"
	KindInvalidFunctionArgs      Kind = "invalid_function_args"
	KindUnsupportedFunction      Kind = "unsupported_function"
	KindToolExecutionFailed      Kind = "tool_execution_failed"
	KindModelResponseUnavailable Kind = "model_response_unavailable"
	KindProviderUnavailable      Kind = "provider_unavailable"
	KindInternal                 Kind = "internal"
)

// Error pairs a Kind with the public message and, optionally, the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	return StatusFor(e.Kind)
}

// New builds an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around err. An err that already carries a kind keeps it.
func Wrap(err error, kind Kind, message string) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusFor maps a kind onto an HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindMissingInput, KindInvalidFunctionArgs, KindUnsupportedFunction:
		return http.StatusBadRequest
	case KindProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
