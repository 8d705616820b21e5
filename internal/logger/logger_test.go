package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestSlogLogger_LogMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelDebug, "text")

	tests := []struct {
		name  string
		fn    func(string, ...any)
		level string
	}{
		{"Debug", log.Debug, "DEBUG"},
		{"Info", log.Info, "INFO"},
		{"Warn", log.Warn, "WARN"},
		{"Error", log.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("test message", "key", "value")

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "test message") {
				t.Errorf("expected output to contain message, got: %s", output)
			}
			if !strings.Contains(output, "key=value") {
				t.Errorf("expected output to contain key=value, got: %s", output)
			}
		})
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn, "text")

	log.Debug("debug message")
	log.Info("info message")

	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}

	buf.Reset()
	log.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("expected error message to be logged")
	}
}

func TestSlogLogger_SetLevel(t *testing.T) {
	log := New()

	// Set to debug
	log.SetLevel(slog.LevelDebug)
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected level to be Debug, got %v", log.GetLevel())
	}

	// Set to warn
	log.SetLevel(slog.LevelWarn)
	if log.GetLevel() != slog.LevelWarn {
		t.Errorf("expected level to be Warn, got %v", log.GetLevel())
	}
}

func TestSlogLogger_GetLevel(t *testing.T) {
	// Test default level
	log := New()
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level to be Info, got %v", log.GetLevel())
	}

	// Test custom level
	log = NewWithLevel(slog.LevelError)
	if log.GetLevel() != slog.LevelError {
		t.Errorf("expected level to be Error, got %v", log.GetLevel())
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	// Should be disabled by default
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}

	// Enable it
	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}

	// Disable it
	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo, "json")

	log.Info("heats scheduled", "race_id", 4)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "heats scheduled" {
		t.Errorf("expected msg field, got %v", entry["msg"])
	}
	if entry["race_id"] != float64(4) {
		t.Errorf("expected race_id 4, got %v", entry["race_id"])
	}
}

func TestNewWithWriter_SetLevelAppliesToHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelError, "text")

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}

	log.SetLevel(slog.LevelInfo)
	log.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected info to pass after SetLevel, got %s", buf.String())
	}
}

func TestWith_SharesLevelAndHTTPSwitch(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, slog.LevelInfo, "text")
	child := parent.With("component", "schedule")

	child.Info("heats scheduled", "race_id", 2)
	if !strings.Contains(buf.String(), "component=schedule") {
		t.Errorf("expected component attribute, got %s", buf.String())
	}

	buf.Reset()
	parent.SetLevel(slog.LevelError)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected child to follow parent level, got %s", buf.String())
	}

	parent.EnableHTTPLogging()
	if !child.IsHTTPLoggingEnabled() {
		t.Error("expected child to share the HTTP logging switch")
	}

	buf.Reset()
	parent.SetLevel(slog.LevelInfo)
	parent.Info("plain")
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("expected parent to stay unscoped, got %s", buf.String())
	}
}
