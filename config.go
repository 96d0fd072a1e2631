package juncture

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	jerrors "github.com/randalmurphal/juncture/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PublicConfig configures a PublicClient.
type PublicConfig struct {
	// JunctureAPIURL is the base URL of the Juncture API. Required.
	JunctureAPIURL string `json:"junctureApiUrl" yaml:"api_url" validate:"required"`

	// JuncturePublicKey identifies the caller's cloud tenant. Optional; sent
	// as X-Juncture-Public-Key when set.
	JuncturePublicKey string `json:"juncturePublicKey,omitempty" yaml:"public_key,omitempty"`
}

// SecretConfig configures a SecretClient.
//
// The secret key is redacted from every rendering of the config: fmt verbs,
// JSON and YAML. Read the field directly when the value is needed.
type SecretConfig struct {
	// JunctureAPIURL is the base URL of the Juncture API. Required.
	JunctureAPIURL string `json:"junctureApiUrl" yaml:"api_url" validate:"required"`

	// JunctureSecretKey authenticates server-side calls. Required.
	JunctureSecretKey string `json:"junctureSecretKey" yaml:"secret_key" validate:"required"`
}

const redacted = "[REDACTED]"

func (c SecretConfig) redactedKey() string {
	if c.JunctureSecretKey == "" {
		return ""
	}
	return redacted
}

// String implements fmt.Stringer without the secret key.
func (c SecretConfig) String() string {
	return fmt.Sprintf("{JunctureAPIURL:%s JunctureSecretKey:%s}", c.JunctureAPIURL, c.redactedKey())
}

// GoString implements fmt.GoStringer for %#v without the secret key.
func (c SecretConfig) GoString() string {
	return fmt.Sprintf("juncture.SecretConfig{JunctureAPIURL:%q, JunctureSecretKey:%q}", c.JunctureAPIURL, c.redactedKey())
}

// MarshalJSON encodes the config with the secret key redacted.
func (c SecretConfig) MarshalJSON() ([]byte, error) {
	type plain SecretConfig
	return json.Marshal(plain{JunctureAPIURL: c.JunctureAPIURL, JunctureSecretKey: c.redactedKey()})
}

// MarshalYAML encodes the config with the secret key redacted.
func (c SecretConfig) MarshalYAML() (any, error) {
	return map[string]string{
		"api_url":    c.JunctureAPIURL,
		"secret_key": c.redactedKey(),
	}, nil
}

// validateConfig checks the required fields of cfg and reports the first
// missing one as a ConfigurationError.
func validateConfig(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return &jerrors.ConfigurationError{
			Field:   field,
			Message: field + " is required",
		}
	}
	return &jerrors.ConfigurationError{Message: err.Error()}
}
