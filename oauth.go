package juncture

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuth2Token converts t for use with golang.org/x/oauth2.
func (t *AccessToken) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   "Bearer",
		Expiry:      t.ExpiresAt,
	}
}

type tokenSource struct {
	ctx        context.Context
	client     *SecretClient
	externalID string
	provider   Provider
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.client.AccessToken(s.ctx, s.externalID, s.provider)
	if err != nil {
		return nil, err
	}
	return tok.OAuth2Token(), nil
}

// TokenSource returns an oauth2.TokenSource that fetches a fresh access
// token from Juncture on every call. Wrap it with oauth2.ReuseTokenSource
// to reuse tokens until they expire.
func (c *SecretClient) TokenSource(ctx context.Context, externalID string, provider Provider) oauth2.TokenSource {
	return &tokenSource{
		ctx:        ctx,
		client:     c,
		externalID: externalID,
		provider:   provider,
	}
}

// ProviderHTTPClient returns an *http.Client that authenticates requests to
// the provider's own API with externalID's access token. Tokens are reused
// until they expire.
func (c *SecretClient) ProviderHTTPClient(ctx context.Context, externalID string, provider Provider) *http.Client {
	return oauth2.NewClient(ctx, c.TokenSource(ctx, externalID, provider))
}
