package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var saved map[string]any
	if err := yaml.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return saved
}

func TestSaveConfig_SaveGlobal(t *testing.T) {
	dir := t.TempDir()
	cfg := SaveConfig{GlobalPath: filepath.Join(dir, ".config", "juncture", "config.yaml")}

	t.Run("creates config file", func(t *testing.T) {
		if err := cfg.SaveGlobal(KeyAPIURL, "https://api.example.com"); err != nil {
			t.Fatalf("SaveGlobal() error = %v", err)
		}
		saved := readYAML(t, cfg.GlobalPath)
		if saved[KeyAPIURL] != "https://api.example.com" {
			t.Errorf("api_url = %v", saved[KeyAPIURL])
		}

		info, err := os.Stat(cfg.GlobalPath)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("mode = %o, want 600", perm)
		}
	})

	t.Run("updates existing config", func(t *testing.T) {
		if err := cfg.SaveGlobal(KeySecretKey, "sk_live"); err != nil {
			t.Fatalf("SaveGlobal() error = %v", err)
		}
		saved := readYAML(t, cfg.GlobalPath)
		if saved[KeyAPIURL] != "https://api.example.com" || saved[KeySecretKey] != "sk_live" {
			t.Errorf("saved = %v", saved)
		}
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		if err := cfg.SaveGlobal("format", "json"); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("round trips through the resolver", func(t *testing.T) {
		resolved := NewResolver(WithPaths(cfg.GlobalPath, ""), WithEnv(envMap(nil))).Resolve(nil)
		if resolved.Get(KeySecretKey) != "sk_live" || resolved.Source(KeySecretKey) != SourceGlobal {
			t.Errorf("secret_key = %q from %q", resolved.Get(KeySecretKey), resolved.Source(KeySecretKey))
		}
	})
}

func TestSaveConfig_SaveLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := SaveConfig{LocalPath: filepath.Join(dir, LocalFileName)}

	if err := cfg.SaveLocal(KeyAPIURL, "https://api.example.com"); err != nil {
		t.Fatalf("SaveLocal() error = %v", err)
	}
	if saved := readYAML(t, cfg.LocalPath); saved[KeyAPIURL] != "https://api.example.com" {
		t.Errorf("api_url = %v", saved[KeyAPIURL])
	}

	err := cfg.SaveLocal(KeySecretKey, "sk_live")
	if !errors.Is(err, ErrSecretInLocalConfig) {
		t.Errorf("SaveLocal(secret_key) error = %v, want ErrSecretInLocalConfig", err)
	}

	if err := (SaveConfig{}).SaveLocal(KeyAPIURL, "x"); err == nil {
		t.Error("expected error without a local path")
	}
}

func TestSaveConfig_DeleteGlobalKey(t *testing.T) {
	dir := t.TempDir()
	cfg := SaveConfig{GlobalPath: filepath.Join(dir, "config.yaml")}

	if err := cfg.DeleteGlobalKey(KeyAPIURL); err != nil {
		t.Fatalf("DeleteGlobalKey() on missing file error = %v", err)
	}

	if err := cfg.SaveGlobal(KeyAPIURL, "x"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SaveGlobal(KeyOutput, "json"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.DeleteGlobalKey(KeyAPIURL); err != nil {
		t.Fatalf("DeleteGlobalKey() error = %v", err)
	}

	saved := readYAML(t, cfg.GlobalPath)
	if _, ok := saved[KeyAPIURL]; ok {
		t.Error("api_url was not deleted")
	}
	if saved[KeyOutput] != "json" {
		t.Errorf("output = %v, want json", saved[KeyOutput])
	}
}

func TestSaveConfig_MalformedYAML(t *testing.T) {
	const original = "api_url: https://api.example.com\nsecret_key: sk_live\noutput: [json\n"

	tests := []struct {
		name string
		save func(SaveConfig) error
	}{
		{"set", func(c SaveConfig) error { return c.SaveGlobal(KeyOutput, "yaml") }},
		{"unset", func(c SaveConfig) error { return c.DeleteGlobalKey(KeyOutput) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(original), 0o600); err != nil {
				t.Fatal(err)
			}

			err := tt.save(SaveConfig{GlobalPath: path})
			if err == nil {
				t.Fatal("expected an error for an unparsable config")
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error = %v, want it to name %s", err, path)
			}

			data, readErr := os.ReadFile(path)
			if readErr != nil {
				t.Fatal(readErr)
			}
			if string(data) != original {
				t.Errorf("config was rewritten:\n%s", data)
			}
		})
	}
}
