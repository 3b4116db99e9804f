package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{" ERROR ", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn %d", 1)
	l.Error("error %s", "two")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below level were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: warn 1") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] test: error two") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.WithComponent("remap").WithFields(map[string]any{"zeta": 1, "alpha": "a"}).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "hello {alpha=a, component=remap, zeta=1}") {
		t.Errorf("unexpected field rendering: %q", out)
	}
}

func TestDerivedLoggerSharesSink(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelInfo, Output: &buf})
	child := parent.WithField("k", "v")

	parent.SetLevel(LevelError)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent's level: %q", buf.String())
	}

	parent.Disable()
	child.Error("also suppressed")
	if buf.Len() != 0 {
		t.Errorf("child ignored Disable: %q", buf.String())
	}

	parent.Enable()
	child.Error("written")
	if !strings.Contains(buf.String(), "written {k=v}") {
		t.Errorf("got %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.WithField("a", 1).Error("nothing")
}
