package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/posttext/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{500 * time.Millisecond}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "500ms" {
		t.Errorf("MarshalText() = %v, want 500ms", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}
	if cfg.Input.File != "index.pt" {
		t.Errorf("Input.File = %v, want index.pt", cfg.Input.File)
	}
	if cfg.Output.Dir != "dist" || cfg.Output.File != "index.html" {
		t.Errorf("Output = %+v, want dist/index.html", cfg.Output)
	}
	if cfg.Output.DefaultTitle != "PostText" {
		t.Errorf("Output.DefaultTitle = %v, want PostText", cfg.Output.DefaultTitle)
	}
	if cfg.Address() != "127.0.0.1:8000" {
		t.Errorf("Address() = %v, want 127.0.0.1:8000", cfg.Address())
	}
	if cfg.Serve.Debounce.Duration != 100*time.Millisecond {
		t.Errorf("Serve.Debounce = %v, want 100ms", cfg.Serve.Debounce.Duration)
	}
	if !cfg.LiveReloadEnabled() {
		t.Error("LiveReloadEnabled() = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/posttext.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeConfig) {
		t.Errorf("error code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeConfig)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posttext.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
[general]
log_level = "debug"

[input]
file = "docs/book.pt"

[output]
dir = "public"

[deps]
css = ["https://cdn.example/base.css"]

[serve]
port = 9000
debounce = "2s"
live_reload = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Input.File != "docs/book.pt" {
		t.Errorf("Input.File = %v, want docs/book.pt", cfg.Input.File)
	}
	if cfg.Output.Dir != "public" {
		t.Errorf("Output.Dir = %v, want public", cfg.Output.Dir)
	}
	if len(cfg.Deps.CSS) != 1 {
		t.Errorf("Deps.CSS = %v, want one entry", cfg.Deps.CSS)
	}
	if cfg.Serve.Port != 9000 {
		t.Errorf("Serve.Port = %v, want 9000", cfg.Serve.Port)
	}
	if cfg.Serve.Debounce.Duration != 2*time.Second {
		t.Errorf("Serve.Debounce = %v, want 2s", cfg.Serve.Debounce.Duration)
	}
	if cfg.LiveReloadEnabled() {
		t.Error("LiveReloadEnabled() = true, want false")
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %v, want %v", cfg.Path(), path)
	}

	// Defaults for missing values
	if cfg.Output.File != "index.html" {
		t.Errorf("Output.File = %v, want index.html (default)", cfg.Output.File)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[output]
directory = "public"
`)

	_, err := Load(path)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConf) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "[general]\nlog_level = \"loud\"\n"},
		{"bad format", "[general]\nlog_format = \"xml\"\n"},
		{"escaping output file", "[output]\nfile = \"../index.html\"\n"},
		{"port range", "[serve]\nport = 70000\n"},
		{"negative debounce", "[serve]\ndebounce = \"-1s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConf) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("POSTTEXT_TEST_OUT", "/tmp/site")

	cfg := &Config{Output: OutputConfig{Dir: "$POSTTEXT_TEST_OUT/dist"}}
	cfg.expandEnvVars()

	if cfg.Output.Dir != "/tmp/site/dist" {
		t.Errorf("Output.Dir = %v, want /tmp/site/dist", cfg.Output.Dir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[serve]\nport = 8123\n")
	t.Setenv(EnvConfig, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Serve.Port != 8123 {
		t.Errorf("Serve.Port = %v, want 8123", cfg.Serve.Port)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %v, want defaults", cfg.Path())
	}
}
