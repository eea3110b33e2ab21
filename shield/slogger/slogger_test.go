package slogger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "json")

	logger.Debug("score calculated", "organization", "org-1", "score", 65)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["organization"] != "org-1" {
		t.Errorf("expected organization attribute, got %v", entry)
	}
}

func TestNewTextFormatFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestNewLeavesDefaultLevelAlone(t *testing.T) {
	InitWith("error", "text")
	defer InitWith("info", "text")

	New(&bytes.Buffer{}, "debug", "json")

	if IsDebug() {
		t.Error("New must not change the default logger's level")
	}

	InitWith("DEBUG", "text")
	if !IsDebug() {
		t.Error("expected InitWith to enable debug")
	}
}
