package juncture

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	jerrors "github.com/randalmurphal/juncture/errors"
	jhttp "github.com/randalmurphal/juncture/http"
	"github.com/randalmurphal/juncture/jira"
)

// Juncture endpoints for connection management.
const (
	pathCheckConnectionValidity = "/check-connection-validity"
	pathConnectionCredentials   = "/get-connection-credentials"
	pathAccessToken             = "/get-access-token"
)

// SecretClient manages connections and provider resources server-side. It
// carries the secret key and must never be exposed to end users.
type SecretClient struct {
	cfg       SecretConfig
	transport *jhttp.Client
	jira      *jira.Client
	logger    *slog.Logger
}

// NewSecretClient validates cfg and returns a client with its own
// transport. It fails with a *errors.ConfigurationError when
// JunctureAPIURL or JunctureSecretKey is empty.
func NewSecretClient(cfg SecretConfig, opts ...Option) (*SecretClient, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	transport := jhttp.NewClient(jhttp.ClientConfig{
		Client:  o.httpClient,
		BaseURL: cfg.JunctureAPIURL,
		Headers: map[string]string{jhttp.HeaderSecretKey: cfg.JunctureSecretKey},
		Logger:  o.logger,
	})

	return &SecretClient{
		cfg:       cfg,
		transport: transport,
		jira:      jira.New(transport),
		logger:    o.logger,
	}, nil
}

// Config returns a copy of the client's configuration.
func (c *SecretClient) Config() SecretConfig {
	return c.cfg
}

// Transport returns the transport the client sends requests through.
func (c *SecretClient) Transport() *jhttp.Client {
	return c.transport
}

// Jira returns the Jira operations bound to this client's transport.
func (c *SecretClient) Jira() *jira.Client {
	return c.jira
}

// CheckConnectionValidity reports whether externalID has a usable
// connection to provider.
func (c *SecretClient) CheckConnectionValidity(ctx context.Context, externalID string, provider Provider) (*ConnectionStatus, error) {
	const op = "CheckConnectionValidity"
	const fallback = "Failed to check connection validity"

	var wire connectionValidityWire
	if err := c.transport.Get(ctx, pathCheckConnectionValidity, connectionQuery(externalID, provider), &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}

	expiresAt, err := jhttp.ParseOptionalTime(wire.ExpiresAt)
	if err != nil {
		return nil, decodeError(op, "expires_at", err, fallback)
	}
	return &ConnectionStatus{
		Exists:    wire.Exists,
		IsInvalid: wire.IsInvalid,
		ExpiresAt: expiresAt,
	}, nil
}

// ConnectionCredentials returns the refresh token of externalID's
// connection to provider.
func (c *SecretClient) ConnectionCredentials(ctx context.Context, externalID string, provider Provider) (*ConnectionCredentials, error) {
	const op = "ConnectionCredentials"
	const fallback = "Failed to get connection credentials"

	var wire credentialsWire
	if err := c.transport.Get(ctx, pathConnectionCredentials, connectionQuery(externalID, provider), &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}

	expiresAt, err := jhttp.ParseTime(wire.ExpiresAt)
	if err != nil {
		return nil, decodeError(op, "expires_at", err, fallback)
	}
	return &ConnectionCredentials{
		RefreshToken: wire.RefreshToken,
		ExpiresAt:    expiresAt,
		IsInvalid:    wire.IsInvalid,
	}, nil
}

// AccessToken returns a fresh provider access token for externalID.
//
// When the remote answers 403 with needs_reauthorization set, the error is
// a *errors.ReauthorizationRequiredError and the end user must go through
// PublicClient.Reauthorize.
func (c *SecretClient) AccessToken(ctx context.Context, externalID string, provider Provider) (*AccessToken, error) {
	const op = "AccessToken"
	const fallback = "Failed to get access token"

	var wire accessTokenWire
	if err := c.transport.Get(ctx, pathAccessToken, connectionQuery(externalID, provider), &wire); err != nil {
		err = jerrors.NormalizeWithReauthorization(op, err, fallback)
		if jerrors.IsReauthorizationRequired(err) {
			c.logger.DebugContext(ctx, "connection needs reauthorization", "provider", provider)
		}
		return nil, err
	}

	expiresAt, err := jhttp.ParseTime(wire.ExpiresAt)
	if err != nil {
		return nil, decodeError(op, "expires_at", err, fallback)
	}
	return &AccessToken{
		AccessToken: wire.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func connectionQuery(externalID string, provider Provider) url.Values {
	return url.Values{
		"external_id": {externalID},
		"provider":    {string(provider)},
	}
}

func decodeError(op, field string, err error, fallback string) error {
	return jerrors.Normalize(op, fmt.Errorf("decode response: %s: %w", field, err), fallback)
}
