// Package config resolves the juncture CLI's configuration.
//
// Values are layered with clear precedence:
//  1. Command-line flags (highest priority)
//  2. JUNCTURE_* environment variables
//  3. The nearest .juncture.yaml at or above the working directory
//  4. ~/.config/juncture/config.yaml
//  5. Built-in defaults (lowest priority)
//
// # Basic Usage
//
//	cfg := config.NewResolver().Resolve(map[string]string{
//	    config.KeyAPIURL: apiURLFlag,
//	})
//	secret, err := juncture.NewSecretClient(cfg.SecretConfig())
//
// Each resolved value tracks where it came from; see Source.
//
// # Keys
//
//   - api_url (JUNCTURE_API_URL): base URL of the Juncture API
//   - public_key (JUNCTURE_PUBLIC_KEY): public key for OAuth flows
//   - secret_key (JUNCTURE_SECRET_KEY): secret key for server-side calls
//   - output (JUNCTURE_OUTPUT): table, json, or yaml
//
// The secret key can only be saved to the global file, which is written
// with mode 0600.
package config
