package juncture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	jerrors "github.com/randalmurphal/juncture/errors"
	jhttp "github.com/randalmurphal/juncture/http"
)

const pathInitiateOAuthFlow = "/initiate-oauth-flow"

// PublicClient starts OAuth flows on behalf of an end user. It is safe to
// embed in user-facing code: it carries at most a public key.
type PublicClient struct {
	cfg       PublicConfig
	transport *jhttp.Client
	navigator Navigator
	logger    *slog.Logger
}

// NewPublicClient validates cfg and returns a client with its own
// transport. It fails with a *errors.ConfigurationError when
// JunctureAPIURL is empty.
func NewPublicClient(cfg PublicConfig, opts ...Option) (*PublicClient, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	headers := make(map[string]string, 1)
	if cfg.JuncturePublicKey != "" {
		headers[jhttp.HeaderPublicKey] = cfg.JuncturePublicKey
	}

	return &PublicClient{
		cfg: cfg,
		transport: jhttp.NewClient(jhttp.ClientConfig{
			Client:  o.httpClient,
			BaseURL: cfg.JunctureAPIURL,
			Headers: headers,
			Logger:  o.logger,
		}),
		navigator: o.navigator,
		logger:    o.logger,
	}, nil
}

// Config returns a copy of the client's configuration.
func (c *PublicClient) Config() PublicConfig {
	return c.cfg
}

// Transport returns the transport the client sends requests through.
func (c *PublicClient) Transport() *jhttp.Client {
	return c.transport
}

// InitiateOAuthFlow asks Juncture to start an OAuth flow for externalID and
// returns the full response.
func (c *PublicClient) InitiateOAuthFlow(ctx context.Context, provider Provider, externalID string) (*AuthorizationResponse, error) {
	const op = "InitiateOAuthFlow"
	const fallback = "Failed to get authorization URL"

	var payload map[string]any
	req := oauthFlowRequest{Provider: provider, ExternalID: externalID}
	if err := c.transport.Post(ctx, pathInitiateOAuthFlow, req, &payload); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}

	resp := &AuthorizationResponse{}
	for k, v := range payload {
		if k == "authorization_uri" {
			resp.AuthorizationURI, _ = v.(string)
			continue
		}
		if resp.Extra == nil {
			resp.Extra = make(map[string]any)
		}
		resp.Extra[k] = v
	}
	return resp, nil
}

// AuthorizationURL returns the URL where the end user authorizes the
// connection, exactly as Juncture issued it.
func (c *PublicClient) AuthorizationURL(ctx context.Context, provider Provider, externalID string) (string, error) {
	resp, err := c.InitiateOAuthFlow(ctx, provider, externalID)
	if err != nil {
		return "", err
	}
	if resp.AuthorizationURI == "" {
		return "", jerrors.Normalize("AuthorizationURL",
			errors.New("response has no authorization_uri"), "Failed to get authorization URL")
	}
	return resp.AuthorizationURI, nil
}

// RedirectTo sends the end user to the authorization URL using the
// client's Navigator. It fails with a *errors.EnvironmentError, before any
// remote call, when the navigator cannot navigate.
func (c *PublicClient) RedirectTo(ctx context.Context, provider Provider, externalID string, framework Framework) error {
	return c.redirect(ctx, "RedirectTo", c.navigator, provider, externalID, framework)
}

// Reauthorize is RedirectTo, for connections flagged as needing
// reauthorization.
func (c *PublicClient) Reauthorize(ctx context.Context, provider Provider, externalID string, framework Framework) error {
	return c.redirect(ctx, "Reauthorize", c.navigator, provider, externalID, framework)
}

// CompleteIntegration is RedirectTo, for finishing a first-time setup.
func (c *PublicClient) CompleteIntegration(ctx context.Context, provider Provider, externalID string, framework Framework) error {
	return c.redirect(ctx, "CompleteIntegration", c.navigator, provider, externalID, framework)
}

// RedirectResponse is RedirectTo for an HTTP handler: it answers r with a
// 303 to the authorization URL regardless of the client's Navigator.
func (c *PublicClient) RedirectResponse(w http.ResponseWriter, r *http.Request, provider Provider, externalID string, framework Framework) error {
	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}
	return c.redirect(ctx, "RedirectResponse", ResponseNavigator(w, r), provider, externalID, framework)
}

func (c *PublicClient) redirect(ctx context.Context, op string, nav Navigator, provider Provider, externalID string, framework Framework) error {
	if framework != "" && !framework.Valid() {
		return jerrors.Invalid(op, fmt.Errorf("unknown framework %q", framework))
	}
	if err := checkNavigator(op, nav); err != nil {
		return err
	}

	uri, err := c.AuthorizationURL(ctx, provider, externalID)
	if err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "navigating to authorization URL",
		"op", op,
		"provider", provider,
		"framework", framework,
	)
	if err := nav.Navigate(ctx, uri); err != nil {
		return environmentError(op, err)
	}
	return nil
}
