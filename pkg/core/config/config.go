// ============================================================================
// PostText - Markup Compiler
// ============================================================================
//
// Package:     config
// Description: TOML configuration for the compiler, build and dev server
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
	"github.com/msto63/posttext/foundation/utils/filex"
	mdwlog "github.com/msto63/posttext/foundation/core/log"
)

// EnvConfig names the environment variable holding the config file path
const EnvConfig = "POSTTEXT_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Input   InputConfig   `toml:"input"`
	Output  OutputConfig  `toml:"output"`
	Deps    DepsConfig    `toml:"deps"`
	Serve   ServeConfig   `toml:"serve"`

	// path is the file the config was loaded from, empty for defaults
	path string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// InputConfig names the source document
type InputConfig struct {
	File string `toml:"file"`
}

// OutputConfig controls where and how the page is written
type OutputConfig struct {
	Dir          string `toml:"dir"`
	File         string `toml:"file"`
	DefaultTitle string `toml:"default_title"`
}

// DepsConfig lists external dependencies added to every build
type DepsConfig struct {
	JS  []string `toml:"js"`
	CSS []string `toml:"css"`
}

// ServeConfig holds dev server settings
type ServeConfig struct {
	Host       string   `toml:"host"`
	Port       int      `toml:"port"`
	Debounce   Duration `toml:"debounce"`
	LiveReload *bool    `toml:"live_reload"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
			WithCode(mdwerror.CodeConfig).
			WithOperation("config.Load")
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, mdwerror.New(fmt.Sprintf("unknown config key %q", undecoded[0].String())).
			WithCode(mdwerror.CodeInvalidConf).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.path = path
	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by POSTTEXT_CONFIG or the first file
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}

	defaultPaths := []string{
		"./posttext.toml",
		filepath.Join(os.Getenv("HOME"), ".config/posttext/config.toml"),
	}
	for _, p := range defaultPaths {
		if filex.Exists(p) {
			return Load(p)
		}
	}
	return Default(), nil
}

// Path returns the file the configuration came from
func (c *Config) Path() string {
	return c.path
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Input
	if c.Input.File == "" {
		c.Input.File = "index.pt"
	}

	// Output
	if c.Output.Dir == "" {
		c.Output.Dir = "dist"
	}
	if c.Output.File == "" {
		c.Output.File = "index.html"
	}
	if c.Output.DefaultTitle == "" {
		c.Output.DefaultTitle = "PostText"
	}

	// Serve
	if c.Serve.Host == "" {
		c.Serve.Host = "127.0.0.1"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 8000
	}
	if c.Serve.Debounce.Duration == 0 {
		c.Serve.Debounce.Duration = 100 * time.Millisecond
	}
	if c.Serve.LiveReload == nil {
		enabled := true
		c.Serve.LiveReload = &enabled
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Input.File = os.ExpandEnv(c.Input.File)
	c.Output.Dir = os.ExpandEnv(c.Output.Dir)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var errs []error

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("general.log_level: %w", err))
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("general.log_format: %w", err))
	}
	if !filepath.IsLocal(c.Output.File) {
		errs = append(errs, fmt.Errorf("output.file must be a relative path inside output.dir: %q", c.Output.File))
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve.port out of range: %d", c.Serve.Port))
	}
	if c.Serve.Debounce.Duration < 0 {
		errs = append(errs, fmt.Errorf("serve.debounce must not be negative: %s", c.Serve.Debounce.Duration))
	}

	if len(errs) > 0 {
		return mdwerror.Wrap(errors.Join(errs...), "invalid configuration").
			WithCode(mdwerror.CodeInvalidConf).
			WithOperation("config.Validate")
	}
	return nil
}

// Address returns the dev server listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Serve.Host, c.Serve.Port)
}

// LiveReloadEnabled reports whether the dev server injects the reload script
func (c *Config) LiveReloadEnabled() bool {
	return c.Serve.LiveReload == nil || *c.Serve.LiveReload
}
