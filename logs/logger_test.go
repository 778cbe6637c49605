package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/fx/fxtest"

	"moviedeck-cli/config"
)

func TestSetup_ReturnsJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, config.Log{Level: "info"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	l.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON log output, got error: %v\nraw output: %s", err, buf.String())
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %q, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %q, want %q", entry["key"], "value")
	}
}

func TestSetup_PrettyUsesText(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, config.Log{Level: "debug", Pretty: true})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	l.Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestSetup_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(&buf, config.Log{Level: "warn"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_WritesToFileAndClosesOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{Log: config.Log{Level: "info", File: path}}

	l, err := New(Params{Lifecycle: lc, Config: cfg})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lc.RequireStart()
	l.Info("to file")
	lc.RequireStop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("unexpected log file content: %q", data)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	_, err := New(Params{Lifecycle: lc, Config: &config.Config{Log: config.Log{Level: "loud"}}})
	if err == nil {
		t.Fatal("expected error")
	}
}
