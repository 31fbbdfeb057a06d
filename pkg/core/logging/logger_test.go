package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
)

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.name != "test-service" {
		t.Errorf("name = %v, want test-service", logger.name)
	}
	if logger.Foundation() == nil {
		t.Error("Foundation() returned nil")
	}
}

func TestLogger_WithLevel(t *testing.T) {
	logger := New("test")
	result := logger.WithLevel("debug")

	if result.name != "test" {
		t.Errorf("name should be preserved: got %v", result.name)
	}
	if result.GetLevel() != mdwlog.LevelDebug {
		t.Errorf("level = %v, want debug", result.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"info", mdwlog.LevelInfo},
		{"warn", mdwlog.LevelWarn},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"invalid", mdwlog.LevelInfo},
		{"", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("my-service")

	if cfg.ServiceName != "my-service" {
		t.Errorf("ServiceName = %v, want my-service", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %v, want text", cfg.Format)
	}
}

func TestNewLogger_WritesConfiguredFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName: "test-service",
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
	})

	logger.Debug("compiled", mdwlog.Fields{"file": "index.pt"})

	out := buf.String()
	if !strings.Contains(out, `"message":"compiled"`) {
		t.Errorf("output is not JSON: %s", out)
	}
	if !strings.Contains(out, "index.pt") {
		t.Errorf("field missing from output: %s", out)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info entry written at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestNewLogger_AdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("both")

	if !strings.Contains(primary.String(), "both") || !strings.Contains(extra.String(), "both") {
		t.Errorf("entry not written to all outputs: %q / %q", primary.String(), extra.String())
	}
}

func TestWrap(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LoggerConfig{Format: "logfmt", Output: &buf})
	logger := Wrap("posttext-build", base)

	logger.Info("built", "files", 2)

	out := buf.String()
	if !strings.Contains(out, `component="posttext-build"`) {
		t.Errorf("component field missing: %s", out)
	}
	if !strings.Contains(out, "files=2") {
		t.Errorf("key-value field missing: %s", out)
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	// Non-string key and orphan value are skipped
	fields = toFields(123, "value", "orphan")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Wrap("benchmark", NewLogger(LoggerConfig{Output: io.Discard}))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}
