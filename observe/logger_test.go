package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	l.Info(context.Background(), "sweep completed", Field{Key: "report.id", Value: "r-1"})

	entries := logEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "sweep completed" {
		t.Errorf("msg = %v, want 'sweep completed'", entries[0]["msg"])
	}
	if entries[0]["level"] != "info" {
		t.Errorf("level = %v, want info", entries[0]["level"])
	}
	if entries[0]["report.id"] != "r-1" {
		t.Errorf("report.id = %v, want r-1", entries[0]["report.id"])
	}
	if entries[0]["timestamp"] == nil {
		t.Error("timestamp field missing")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("warn", &buf)

	l.Debug(context.Background(), "debug noise")
	l.Info(context.Background(), "info noise")
	l.Warn(context.Background(), "real problem")
	l.Error(context.Background(), "worse problem")

	entries := logEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries at warn level, want 2", len(entries))
	}
}

func TestLoggerRedaction(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	l.Info(context.Background(), "authenticated",
		Field{Key: "access_token", Value: "eyJhbGciOi..."},
		Field{Key: "subject", Value: "alice"},
	)

	entries := logEntries(t, &buf)
	if entries[0]["access_token"] != "[REDACTED]" {
		t.Errorf("access_token = %v, want [REDACTED]", entries[0]["access_token"])
	}
	if entries[0]["subject"] != "alice" {
		t.Errorf("subject = %v, want alice", entries[0]["subject"])
	}
	if strings.Contains(buf.String(), "eyJhbGciOi") {
		t.Error("credential material leaked into the log stream")
	}
}

func TestLoggerWithCheck(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("info", &buf)

	bound := l.WithCheck(CheckMeta{Name: "orphaned", Profile: "prod"})
	bound.Info(context.Background(), "sweep started")

	entries := logEntries(t, &buf)
	if entries[0]["check.name"] != "orphaned" {
		t.Errorf("check.name = %v, want orphaned", entries[0]["check.name"])
	}
	if entries[0]["check.profile"] != "prod" {
		t.Errorf("check.profile = %v, want prod", entries[0]["check.profile"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
