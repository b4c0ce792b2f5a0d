package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type logLine struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []logLine {
	t.Helper()
	var lines []logLine
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line logLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("invalid log line %q: %v", raw, err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New().SetOutput(&buf)

	logger.Info("hello", map[string]interface{}{"category": "sleep"})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Level != "INFO" {
		t.Errorf("expected INFO, got %q", lines[0].Level)
	}
	if lines[0].Message != "hello" {
		t.Errorf("expected message hello, got %q", lines[0].Message)
	}
	if lines[0].Fields["category"] != "sleep" {
		t.Errorf("expected category field, got %v", lines[0].Fields)
	}
	if lines[0].Timestamp == "" {
		t.Error("expected timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New().SetOutput(&buf).SetLevel(LevelWarn)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0].Level != "WARN" || lines[1].Level != "ERROR" {
		t.Errorf("unexpected levels: %q, %q", lines[0].Level, lines[1].Level)
	}
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New().SetOutput(&buf)
	child := parent.WithField("session_id", "abc")

	child.Info("child")
	parent.Info("parent")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Fields["session_id"] != "abc" {
		t.Errorf("expected child field, got %v", lines[0].Fields)
	}
	if lines[1].Fields != nil {
		t.Errorf("expected parent without fields, got %v", lines[1].Fields)
	}
}

func TestLevel_String(t *testing.T) {
	tests := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(42):  "UNKNOWN",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
