package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	l := NewLogger(Config{})
	if l == nil {
		t.Fatal("NewLogger returned nil")
	}
	if !l.Enabled(nil, slog.LevelInfo) {
		t.Error("default logger should log at info level")
	}
	if l.Enabled(nil, slog.LevelDebug) {
		t.Error("default logger should not log at debug level")
	}
}
