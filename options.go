package juncture

import (
	"log/slog"
	"net/http"
)

// Option configures a PublicClient or SecretClient.
type Option func(*options)

type options struct {
	httpClient   *http.Client
	logger       *slog.Logger
	navigator    Navigator
	navigatorSet bool
}

// WithHTTPClient sets the *http.Client requests are sent with. Timeouts and
// proxies are configured there. Defaults to http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger that receives one debug record per request.
// Headers and bodies are never logged. Defaults to discarding all output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithNavigator sets how PublicClient.RedirectTo reaches the authorization
// URL. Defaults to a BrowserNavigator. A nil navigator makes every redirect
// fail with an EnvironmentError.
func WithNavigator(n Navigator) Option {
	return func(o *options) {
		o.navigator = n
		o.navigatorSet = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if !o.navigatorSet {
		o.navigator = NewBrowserNavigator()
	}
	return o
}
