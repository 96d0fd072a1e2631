// Package http provides the JSON transport shared by Juncture clients.
package http

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by APIError.Unwrap.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the caller lacks permission for the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates a server-side error occurred.
	ErrServerError = errors.New("server error")
)

// APIError is a non-2xx response from the remote.
type APIError struct {
	// Service is the name of the remote (e.g., "juncture").
	Service string

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Endpoint is the API path that was called.
	Endpoint string

	// RequestID is the request ID for debugging (if available).
	RequestID string

	// Body is the raw response body.
	Body []byte

	// Payload is Body decoded as a JSON object, or nil.
	Payload map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s API error (%d) at %s [%s]: %s",
			e.Service, e.StatusCode, e.Endpoint, e.RequestID, e.StatusMessage())
	}
	return fmt.Sprintf("%s API error (%d) at %s: %s",
		e.Service, e.StatusCode, e.Endpoint, e.StatusMessage())
}

// StatusMessage is the transport's own description of the failure.
func (e *APIError) StatusMessage() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// String returns a string payload field, or "" when absent or not a string.
func (e *APIError) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Bool returns a boolean payload field, or false when absent or not a bool.
func (e *APIError) Bool(key string) bool {
	b, _ := e.Payload[key].(bool)
	return b
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if e.StatusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
