package errors

import (
	"errors"
	"fmt"
	"strings"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// Messenger provides the wording used by Explain.
type Messenger interface {
	// ConfigurationMessage returns the message and suggestion for a missing field.
	ConfigurationMessage(field string) (message, suggestion string)

	// EnvironmentMessage returns the message and suggestion when navigation is impossible.
	EnvironmentMessage() (message, suggestion string)

	// ReauthorizationMessage returns the message and suggestion for an expired connection.
	ReauthorizationMessage() (message, suggestion string)
}

// DefaultMessenger provides default messages for the juncture CLI.
type DefaultMessenger struct{}

var fieldSettings = map[string]string{
	"JunctureAPIURL":    "api_url",
	"JunctureSecretKey": "secret_key",
	"JuncturePublicKey": "public_key",
}

func (m DefaultMessenger) ConfigurationMessage(field string) (string, string) {
	key, ok := fieldSettings[field]
	if !ok {
		return fmt.Sprintf("%s is not configured.", field), ""
	}
	return fmt.Sprintf("%s is not configured.", field),
		fmt.Sprintf("Set it with --%s, JUNCTURE_%s, or 'juncture config set %s <value>'.",
			strings.ReplaceAll(key, "_", "-"), strings.ToUpper(key), key)
}

func (m DefaultMessenger) EnvironmentMessage() (string, string) {
	return "Cannot open a browser in this environment.",
		"Use 'juncture authorize-url' and open the printed URL manually."
}

func (m DefaultMessenger) ReauthorizationMessage() (string, string) {
	return "The connection needs to be authorized again.",
		"Run 'juncture connect <provider> --external-id <id>' to reauthorize."
}

// WrapConfig configures Explain.
type WrapConfig struct {
	Messenger Messenger
}

// Option configures WrapConfig.
type Option func(*WrapConfig)

// WithMessenger sets a custom messenger.
func WithMessenger(m Messenger) Option {
	return func(c *WrapConfig) {
		c.Messenger = m
	}
}

func getMessenger(opts []Option) Messenger {
	cfg := &WrapConfig{
		Messenger: DefaultMessenger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.Messenger
}

// Explain wraps taxonomy errors in a CLIError with guidance. Other errors
// are returned unchanged.
func Explain(err error, opts ...Option) error {
	if err == nil {
		return nil
	}

	messenger := getMessenger(opts)

	var reauthErr *ReauthorizationRequiredError
	if errors.As(err, &reauthErr) {
		msg, suggestion := messenger.ReauthorizationMessage()
		return &CLIError{Err: err, Message: msg, Details: reauthErr.RemoteMessage, Suggestion: suggestion}
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		msg, suggestion := messenger.ConfigurationMessage(cfgErr.Field)
		return &CLIError{Err: err, Message: msg, Suggestion: suggestion}
	}

	var envErr *EnvironmentError
	if errors.As(err, &envErr) {
		msg, suggestion := messenger.EnvironmentMessage()
		return &CLIError{Err: err, Message: msg, Details: envErr.Error(), Suggestion: suggestion}
	}

	return err
}
