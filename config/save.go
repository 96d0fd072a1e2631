package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrSecretInLocalConfig is returned when saving the secret key to a
// project file, which is usually committed.
var ErrSecretInLocalConfig = errors.New("secret_key can only be saved to the global config")

// SaveConfig writes configuration values to disk.
type SaveConfig struct {
	// GlobalPath is the global config file. Written with mode 0600.
	GlobalPath string

	// LocalPath is the project config file.
	LocalPath string
}

// SaveGlobal sets key in the global config file, creating it if needed.
func (c SaveConfig) SaveGlobal(key, value string) error {
	if c.GlobalPath == "" {
		return fmt.Errorf("global config path not configured")
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.GlobalPath), 0o700); err != nil {
		return err
	}
	return update(c.GlobalPath, 0o600, func(m map[string]any) { m[key] = value })
}

// SaveLocal sets key in the project config file. The secret key is refused.
func (c SaveConfig) SaveLocal(key, value string) error {
	if c.LocalPath == "" {
		return fmt.Errorf("local config path not configured")
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if key == KeySecretKey {
		return ErrSecretInLocalConfig
	}
	// Project config is shared and should be readable
	return update(c.LocalPath, 0o644, func(m map[string]any) { m[key] = value })
}

// DeleteGlobalKey removes key from the global config. A missing file is
// not an error.
func (c SaveConfig) DeleteGlobalKey(key string) error {
	if c.GlobalPath == "" {
		return fmt.Errorf("global config path not configured")
	}
	if _, err := os.Stat(c.GlobalPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return update(c.GlobalPath, 0o600, func(m map[string]any) { delete(m, key) })
}

// update rewrites path after applying fn to its decoded contents. A file
// that does not parse is left untouched and its parse error returned.
func update(path string, perm os.FileMode, fn func(map[string]any)) error {
	var existing map[string]any
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	if existing == nil {
		existing = make(map[string]any)
	}

	fn(existing)

	data, err = yaml.Marshal(existing)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, perm)
}
