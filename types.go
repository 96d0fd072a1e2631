package juncture

import (
	"fmt"
	"slices"
	"time"
)

// Provider names a third-party service Juncture brokers connections to.
type Provider string

// Supported providers.
const (
	ProviderJira Provider = "jira"
)

func (p Provider) String() string {
	return string(p)
}

// Framework names the caller's front-end framework. It is advisory: it is
// checked and logged but never changes how a redirect is performed.
type Framework string

// Known frameworks.
const (
	FrameworkReact   Framework = "react"
	FrameworkNextJS  Framework = "nextjs"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkSvelte  Framework = "svelte"
)

var frameworks = []Framework{
	FrameworkReact,
	FrameworkNextJS,
	FrameworkVue,
	FrameworkAngular,
	FrameworkSvelte,
}

// Frameworks returns every known framework.
func Frameworks() []Framework {
	return slices.Clone(frameworks)
}

// Valid reports whether f is a known framework.
func (f Framework) Valid() bool {
	return slices.Contains(frameworks, f)
}

// ParseFramework returns the framework named s.
func ParseFramework(s string) (Framework, error) {
	f := Framework(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown framework %q (want one of %v)", s, frameworks)
	}
	return f, nil
}

// ConnectionStatus reports whether a connection exists and is usable.
type ConnectionStatus struct {
	Exists    bool       `json:"exists" yaml:"exists"`
	IsInvalid bool       `json:"isInvalid" yaml:"isInvalid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// ConnectionCredentials are the long-lived credentials of a connection.
type ConnectionCredentials struct {
	RefreshToken string    `json:"refreshToken" yaml:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt" yaml:"expiresAt"`
	IsInvalid    bool      `json:"isInvalid" yaml:"isInvalid"`
}

// AccessToken is a short-lived provider access token.
type AccessToken struct {
	AccessToken string    `json:"accessToken" yaml:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt" yaml:"expiresAt"`
}

// AuthorizationResponse is the result of starting an OAuth flow.
type AuthorizationResponse struct {
	// AuthorizationURI is where the end user authorizes the connection.
	AuthorizationURI string `json:"authorizationUri" yaml:"authorizationUri"`

	// Extra holds any other fields the remote returned, unchanged.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

type oauthFlowRequest struct {
	Provider   Provider `json:"provider"`
	ExternalID string   `json:"external_id"`
}

type connectionValidityWire struct {
	Exists    bool    `json:"exists"`
	IsInvalid bool    `json:"is_invalid"`
	ExpiresAt *string `json:"expires_at"`
}

type credentialsWire struct {
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
	IsInvalid    bool   `json:"is_invalid"`
}

type accessTokenWire struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}
