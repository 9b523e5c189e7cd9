// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate response shapes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingInput indicates a lookup request carried neither a phone number
	// nor a client id.
	ErrMissingInput = errors.New("missing phone or client_id")

	// ErrUpstreamAuth indicates the upstream token endpoint was unreachable or
	// rejected the credential exchange. Fatal for the whole request.
	ErrUpstreamAuth = errors.New("upstream authentication failed")

	// ErrUpstreamUnavailable indicates a transport-level failure talking to the
	// upstream API. Scan layers recover from it locally as "no data".
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
