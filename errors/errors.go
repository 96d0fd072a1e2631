package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	// ErrConfiguration indicates a required configuration field is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrEnvironment indicates the runtime lacks a capability the operation needs.
	ErrEnvironment = errors.New("environment error")

	// ErrRequest indicates a remote call failed.
	ErrRequest = errors.New("request error")

	// ErrReauthorizationRequired indicates the stored connection must be
	// re-authorized by the end user.
	ErrReauthorizationRequired = errors.New("reauthorization required")

	// ErrNoBrowsingContext is returned by navigators that cannot navigate in
	// the current runtime.
	ErrNoBrowsingContext = errors.New("no navigable browsing context")
)

// ConfigurationError is returned by client constructors when a required
// field is missing.
type ConfigurationError struct {
	// Field is the missing configuration field (e.g., "JunctureAPIURL").
	Field string

	// Message is the human-readable description.
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// EnvironmentError is returned when an operation needs a capability the
// current runtime lacks, such as a browser to navigate.
type EnvironmentError struct {
	Op      string
	Message string
	Err     error
}

func (e *EnvironmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports ErrEnvironment in addition to the wrapped cause.
func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironment
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// RequestError is the normalized form of every failed remote call.
// Error returns Message unchanged so callers see the remote's own wording.
type RequestError struct {
	// Op is the client operation that failed (e.g., "AccessToken").
	Op string

	// StatusCode is the HTTP status, or 0 for failures before a response.
	StatusCode int

	// Message is the normalized human-readable message.
	Message string

	// Err is the transport or decoding error that caused the failure.
	Err error
}

func (e *RequestError) Error() string {
	return e.Message
}

// Is reports ErrRequest in addition to the wrapped cause.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ReauthorizationPrefix starts the message of every ReauthorizationRequiredError.
const ReauthorizationPrefix = "Reauthorization required: "

// ReauthorizationRequiredError is a RequestError signaled when the remote
// denies access and flags that the end user must authorize again.
type ReauthorizationRequiredError struct {
	*RequestError

	// RemoteMessage is the remote's explanation without the prefix.
	RemoteMessage string
}

// NewReauthorizationRequiredError builds the error for op from the remote message.
func NewReauthorizationRequiredError(op string, statusCode int, remoteMessage string, cause error) *ReauthorizationRequiredError {
	return &ReauthorizationRequiredError{
		RequestError: &RequestError{
			Op:         op,
			StatusCode: statusCode,
			Message:    ReauthorizationPrefix + remoteMessage,
			Err:        cause,
		},
		RemoteMessage: remoteMessage,
	}
}

func (e *ReauthorizationRequiredError) Error() string {
	return e.RequestError.Message
}

// Is reports ErrReauthorizationRequired and ErrRequest.
func (e *ReauthorizationRequiredError) Is(target error) bool {
	return target == ErrReauthorizationRequired || target == ErrRequest
}

// Unwrap exposes the embedded RequestError to errors.As.
func (e *ReauthorizationRequiredError) Unwrap() error {
	return e.RequestError
}
