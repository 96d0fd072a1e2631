package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/juncture"
)

// Configuration keys understood by the juncture CLI.
const (
	KeyAPIURL    = "api_url"
	KeyPublicKey = "public_key"
	KeySecretKey = "secret_key"
	KeyOutput    = "output"
)

// File locations and environment naming.
const (
	EnvPrefix      = "JUNCTURE_"
	AppDir         = "juncture"
	GlobalFileName = "config.yaml"
	LocalFileName  = ".juncture.yaml"
)

// Keys lists every valid key in display order.
var Keys = []string{KeyAPIURL, KeyPublicKey, KeySecretKey, KeyOutput}

var defaults = map[string]string{
	KeyOutput: "table",
}

// ValidateKey returns an error naming the valid keys when key is unknown.
func ValidateKey(key string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s", key, strings.Join(Keys, ", "))
	}
	return nil
}

// EnvVar returns the environment variable that sets key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// DefaultGlobalPath returns ~/.config/juncture/config.yaml, or "" when the
// home directory is unknown.
func DefaultGlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppDir, GlobalFileName)
}

// Resolver merges configuration from every source.
type Resolver struct {
	globalPath string
	localPath  string
	getenv     func(string) string
	errWriter  io.Writer

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPaths sets the global and local config files explicitly. An empty
// path disables that source.
func WithPaths(globalPath, localPath string) Option {
	return func(r *Resolver) {
		r.globalPath = globalPath
		r.localPath = localPath
	}
}

// WithEnv replaces os.Getenv for environment lookups.
func WithEnv(getenv func(string) string) Option {
	return func(r *Resolver) {
		r.getenv = getenv
	}
}

// WithErrWriter sets where warnings are printed. Defaults to os.Stderr.
func WithErrWriter(w io.Writer) Option {
	return func(r *Resolver) {
		r.errWriter = w
	}
}

// NewResolver returns a resolver reading the global config file and the
// nearest .juncture.yaml at or above the working directory.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		globalPath: DefaultGlobalPath(),
		localPath:  findLocalConfig("."),
		getenv:     os.Getenv,
		errWriter:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// LocalPath returns the path to the local config file, if one was found.
func (r *Resolver) LocalPath() string {
	return r.localPath
}

func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.errWriter != nil {
		fmt.Fprintf(r.errWriter, "Warning: %s\n", msg)
	}
}

// Resolve builds the final config. Priority, highest first: flags, env,
// local file, global file, defaults. Empty flag values are ignored.
func (r *Resolver) Resolve(flags map[string]string) *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range defaults {
		cfg.set(key, value, SourceDefault)
	}
	r.applyFile(cfg, r.globalPath, SourceGlobal)
	r.applyFile(cfg, r.localPath, SourceLocal)
	for _, key := range Keys {
		if value := r.getenv(EnvVar(key)); value != "" {
			cfg.set(key, value, SourceEnv)
		}
	}
	for key, value := range flags {
		if value != "" {
			cfg.set(key, value, SourceFlag)
		}
	}

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // missing file is not an error
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if ValidateKey(key) != nil {
			r.warn(fmt.Sprintf("ignoring unknown key %q in %s", key, path))
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.set(key, strVal, source)
		}
	}
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

func (c *Resolved) set(key, value string, source Source) {
	c.values[key] = value
	c.sources[key] = source
}

// Get returns the value for a key, or "" if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// Display returns the value for printing, with the secret key redacted.
func (c *Resolved) Display(key string) string {
	value := c.values[key]
	if key == KeySecretKey && value != "" {
		return "[REDACTED]"
	}
	return value
}

// Keys returns the keys that have a value, in display order.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for _, k := range Keys {
		if _, ok := c.values[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// PublicConfig returns the SDK configuration for a public client.
func (c *Resolved) PublicConfig() juncture.PublicConfig {
	return juncture.PublicConfig{
		JunctureAPIURL:    c.values[KeyAPIURL],
		JuncturePublicKey: c.values[KeyPublicKey],
	}
}

// SecretConfig returns the SDK configuration for a secret client.
func (c *Resolved) SecretConfig() juncture.SecretConfig {
	return juncture.SecretConfig{
		JunctureAPIURL:    c.values[KeyAPIURL],
		JunctureSecretKey: c.values[KeySecretKey],
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}

// findLocalConfig walks up from startDir looking for LocalFileName.
func findLocalConfig(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, LocalFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
