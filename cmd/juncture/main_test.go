package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/juncture/config"
	jerrors "github.com/randalmurphal/juncture/errors"
	jhttp "github.com/randalmurphal/juncture/http"
	"github.com/randalmurphal/juncture/testutil"
)

type recordingNavigator struct {
	urls []string
	err  error
}

func (n *recordingNavigator) Navigate(_ context.Context, url string) error {
	if n.err != nil {
		return n.err
	}
	n.urls = append(n.urls, url)
	return nil
}

// harness runs the CLI against a fake API with isolated config files.
type harness struct {
	server *testutil.Server
	dir    string
	env    map[string]string
	nav    *recordingNavigator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	server := testutil.NewServer(t)
	return &harness{
		server: server,
		dir:    t.TempDir(),
		env: map[string]string{
			"JUNCTURE_API_URL":    server.URL,
			"JUNCTURE_PUBLIC_KEY": "pk_test",
			"JUNCTURE_SECRET_KEY": "sk_test",
		},
		nav: &recordingNavigator{},
	}
}

func (h *harness) globalPath() string { return filepath.Join(h.dir, "global", "config.yaml") }
func (h *harness) localPath() string  { return filepath.Join(h.dir, ".juncture.yaml") }

type result struct {
	stdout string
	stderr string
	code   int
}

func (h *harness) run(t *testing.T, args ...string) result {
	t.Helper()

	a := &app{
		newResolver: func() *config.Resolver {
			return config.NewResolver(
				config.WithPaths(h.globalPath(), h.localPath()),
				config.WithEnv(func(key string) string { return h.env[key] }),
				config.WithErrWriter(io.Discard),
			)
		},
		navigator: h.nav,
	}

	var stdout, stderr bytes.Buffer
	code := run(testutil.TestContext(t), a, append([]string{"--no-color"}, args...), &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain", io.EOF, ExitCodeError},
		{"request", &jerrors.RequestError{Op: "X", StatusCode: 500, Message: "boom"}, ExitCodeError},
		{"configuration", &jerrors.ConfigurationError{Field: "JunctureAPIURL", Message: "missing"}, ExitCodeConfiguration},
		{"reauthorization", jerrors.NewReauthorizationRequiredError("AccessToken", 403, "gone", nil), ExitCodeReauthorizationRequired},
		{"explained reauthorization", jerrors.Explain(jerrors.NewReauthorizationRequiredError("AccessToken", 403, "gone", nil)), ExitCodeReauthorizationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, "version")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "juncture version dev")

	res = h.run(t, "--version")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "juncture version dev\n", res.stdout)
}

func TestMissingConfiguration(t *testing.T) {
	h := newHarness(t)
	delete(h.env, "JUNCTURE_SECRET_KEY")

	res := h.run(t, "jira", "projects", "list")

	assert.Equal(t, ExitCodeConfiguration, res.code)
	assert.Contains(t, res.stderr, "JunctureSecretKey is not configured.")
	assert.Contains(t, res.stderr, "--secret-key")
	assert.Empty(t, h.server.Requests())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	h := newHarness(t)
	h.env["JUNCTURE_API_URL"] = "http://127.0.0.1:1"
	h.server.JSON(http.MethodGet, "/get-all-projects", map[string]any{"projects": []any{}})

	res := h.run(t, "--api-url", h.server.URL, "--secret-key", "sk_flag", "jira", "projects", "list")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No projects found.")
	assert.Equal(t, "sk_flag", h.server.LastRequest(t).Header.Get(jhttp.HeaderSecretKey))
}

func TestUnsupportedOutputFormat(t *testing.T) {
	h := newHarness(t)

	res := h.run(t, "-o", "xml", "jira", "boards", "list")

	assert.Equal(t, ExitCodeError, res.code)
	assert.Contains(t, res.stderr, `unsupported output format "xml"`)
	assert.Empty(t, h.server.Requests())
}

func TestAuthorizeURL(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodPost, "/initiate-oauth-flow", map[string]any{
		"authorization_uri": "https://auth.example.com/authorize?state=abc",
	})

	t.Run("table", func(t *testing.T) {
		res := h.run(t, "authorize-url", "jira", "--external-id", "user-42")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Jira")
		assert.Contains(t, res.stdout, "user-42")
		assert.Contains(t, res.stdout, "https://auth.example.com/authorize?state=abc")

		req := h.server.LastRequest(t)
		assert.Equal(t, "pk_test", req.Header.Get(jhttp.HeaderPublicKey))
		assert.Equal(t, map[string]any{"provider": "jira", "external_id": "user-42"}, req.Body)
	})

	t.Run("generated external id as json", func(t *testing.T) {
		res := h.run(t, "-o", "json", "authorize-url", "jira")
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		var out authorizationResult
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.True(t, strings.HasPrefix(out.ExternalID, "ext_"), out.ExternalID)
		assert.Equal(t, out.ExternalID, h.server.LastRequest(t).Body["external_id"])
		assert.Equal(t, "https://auth.example.com/authorize?state=abc", out.AuthorizationURI)
	})
}

func TestConnect(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodPost, "/initiate-oauth-flow", map[string]any{
		"authorization_uri": "https://auth.example.com/authorize",
	})

	res := h.run(t, "connect", "jira", "--external-id", "user-42", "--framework", "react")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, []string{"https://auth.example.com/authorize"}, h.nav.urls)
	assert.Contains(t, res.stdout, "Opened the Jira authorization page for user-42.")
}

func TestConnectErrors(t *testing.T) {
	t.Run("external id is required", func(t *testing.T) {
		h := newHarness(t)

		res := h.run(t, "connect", "jira")

		assert.Equal(t, ExitCodeError, res.code)
		assert.Contains(t, res.stderr, `required flag(s) "external-id" not set`)
	})

	t.Run("unknown framework", func(t *testing.T) {
		h := newHarness(t)

		res := h.run(t, "connect", "jira", "--external-id", "u", "--framework", "ember")

		assert.Equal(t, ExitCodeError, res.code)
		assert.Contains(t, res.stderr, "ember")
		assert.Empty(t, h.server.Requests())
	})

	t.Run("no browser", func(t *testing.T) {
		h := newHarness(t)
		h.nav.err = jerrors.ErrNoBrowsingContext
		h.server.JSON(http.MethodPost, "/initiate-oauth-flow", map[string]any{"authorization_uri": "https://auth.example.com"})

		res := h.run(t, "connect", "jira", "--external-id", "u")

		assert.Equal(t, ExitCodeError, res.code)
		assert.Contains(t, res.stderr, "Cannot open a browser")
		assert.Contains(t, res.stderr, "juncture authorize-url")
	})
}

func TestConnectionCommands(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodGet, "/check-connection-validity", map[string]any{
		"exists":     true,
		"is_invalid": false,
		"expires_at": "2026-11-01T00:00:00Z",
	})
	h.server.JSON(http.MethodGet, "/get-connection-credentials", map[string]any{
		"refresh_token": "rt_123",
		"expires_at":    "2026-11-01T00:00:00Z",
		"is_invalid":    false,
	})
	h.server.JSON(http.MethodGet, "/get-access-token", map[string]any{
		"access_token": "at_456",
		"expires_at":   "2026-10-15T13:00:00Z",
	})

	t.Run("check", func(t *testing.T) {
		res := h.run(t, "connection", "check", "jira", "--external-id", "user-42")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "2026-11-01T00:00:00Z")

		req := h.server.LastRequest(t)
		assert.Equal(t, "user-42", req.Query.Get("external_id"))
		assert.Equal(t, "jira", req.Query.Get("provider"))
		assert.Equal(t, "sk_test", req.Header.Get(jhttp.HeaderSecretKey))
	})

	t.Run("credentials as yaml", func(t *testing.T) {
		res := h.run(t, "-o", "yaml", "connection", "credentials", "jira", "--external-id", "user-42")
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		var out map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &out))
		assert.Equal(t, "rt_123", out["refreshToken"])
		assert.Equal(t, false, out["isInvalid"])
	})

	t.Run("token", func(t *testing.T) {
		res := h.run(t, "connection", "token", "jira", "--external-id", "user-42")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "at_456")
	})
}

func TestConnectionTokenReauthorization(t *testing.T) {
	h := newHarness(t)
	h.server.Handle(http.MethodGet, "/get-access-token", http.StatusForbidden, map[string]any{
		"error":                 "Refresh token revoked",
		"needs_reauthorization": true,
	})

	res := h.run(t, "connection", "token", "jira", "--external-id", "user-42")

	assert.Equal(t, ExitCodeReauthorizationRequired, res.code)
	assert.Contains(t, res.stderr, "authorized again")
	assert.Contains(t, res.stderr, "Refresh token revoked")
	assert.Empty(t, res.stdout)
}

func TestVerboseLogsWithoutSecrets(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodGet, "/get-boards-for-project", map[string]any{"boards": []any{}})

	res := h.run(t, "--verbose", "jira", "boards", "list")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.NotEmpty(t, res.stderr)
	assert.NotContains(t, res.stderr, "sk_test")
}
