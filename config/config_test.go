package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolver_Defaults(t *testing.T) {
	resolver := NewResolver(WithPaths("", ""), WithEnv(envMap(nil)))

	cfg := resolver.Resolve(nil)

	if got := cfg.Get(KeyOutput); got != "table" {
		t.Errorf("output = %q, want table", got)
	}
	if got := cfg.Source(KeyOutput); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
	if got := cfg.Get(KeyAPIURL); got != "" {
		t.Errorf("api_url = %q, want empty", got)
	}
}

func TestResolver_Priority(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global", "config.yaml")
	local := filepath.Join(dir, "project", LocalFileName)

	writeFile(t, global, "api_url: https://global.example.com\npublic_key: pk_global\nsecret_key: sk_global\noutput: yaml\n")
	writeFile(t, local, "api_url: https://local.example.com\npublic_key: pk_local\n")

	resolver := NewResolver(
		WithPaths(global, local),
		WithEnv(envMap(map[string]string{"JUNCTURE_API_URL": "https://env.example.com"})),
	)

	cfg := resolver.Resolve(map[string]string{KeyOutput: "json", KeySecretKey: ""})

	tests := []struct {
		key    string
		want   string
		source Source
	}{
		{KeyAPIURL, "https://env.example.com", SourceEnv},
		{KeyPublicKey, "pk_local", SourceLocal},
		{KeySecretKey, "sk_global", SourceGlobal},
		{KeyOutput, "json", SourceFlag},
	}
	for _, tt := range tests {
		if got := cfg.Get(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
		if got := cfg.Source(tt.key); got != tt.source {
			t.Errorf("%s source = %q, want %q", tt.key, got, tt.source)
		}
	}
}

func TestResolver_UnknownKeysWarn(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "config.yaml")
	writeFile(t, global, "api_url: https://api.example.com\nformat: table\n")

	var stderr bytes.Buffer
	resolver := NewResolver(WithPaths(global, ""), WithEnv(envMap(nil)), WithErrWriter(&stderr))
	cfg := resolver.Resolve(nil)

	if got := cfg.Get("format"); got != "" {
		t.Errorf("unknown key was applied: %q", got)
	}
	if len(resolver.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", resolver.Warnings)
	}
	if !strings.Contains(stderr.String(), `unknown key "format"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestResolver_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "config.yaml")
	writeFile(t, global, "api_url: [unterminated\n")

	resolver := NewResolver(WithPaths(global, ""), WithEnv(envMap(nil)), WithErrWriter(nil))
	cfg := resolver.Resolve(nil)

	if cfg.Get(KeyAPIURL) != "" {
		t.Error("malformed file should be ignored")
	}
	if len(resolver.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", resolver.Warnings)
	}
}

func TestResolved_Configs(t *testing.T) {
	resolver := NewResolver(WithPaths("", ""), WithEnv(envMap(map[string]string{
		"JUNCTURE_API_URL":    "https://api.example.com",
		"JUNCTURE_PUBLIC_KEY": "pk",
		"JUNCTURE_SECRET_KEY": "sk_live",
	})))
	cfg := resolver.Resolve(nil)

	pub := cfg.PublicConfig()
	if pub.JunctureAPIURL != "https://api.example.com" || pub.JuncturePublicKey != "pk" {
		t.Errorf("PublicConfig() = %+v", pub)
	}
	sec := cfg.SecretConfig()
	if sec.JunctureSecretKey != "sk_live" {
		t.Error("SecretConfig() lost the secret key")
	}

	if got := cfg.Display(KeySecretKey); got != "[REDACTED]" {
		t.Errorf("Display(secret_key) = %q", got)
	}
	if got := cfg.Display(KeyAPIURL); got != "https://api.example.com" {
		t.Errorf("Display(api_url) = %q", got)
	}

	want := []string{KeyAPIURL, KeyPublicKey, KeySecretKey, KeyOutput}
	if got := cfg.Keys(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range Keys {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v", key, err)
		}
	}
	if err := ValidateKey("no_color"); err == nil {
		t.Error("expected error for unknown key")
	}
	if got := EnvVar(KeySecretKey); got != "JUNCTURE_SECRET_KEY" {
		t.Errorf("EnvVar = %q", got)
	}
}

func TestFindLocalConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, LocalFileName), "api_url: x\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findLocalConfig(nested)
	want := filepath.Join(root, LocalFileName)
	if resolved, err := filepath.EvalSymlinks(got); err == nil {
		got = resolved
	}
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	if got != want {
		t.Errorf("findLocalConfig() = %q, want %q", got, want)
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{true, "true"},
		{42, "42"},
		{1.5, "1.5"},
		{[]any{"x"}, ""},
	}
	for _, tt := range tests {
		if got := toString(tt.in); got != tt.want {
			t.Errorf("toString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
