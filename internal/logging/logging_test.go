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
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestReconfigureLevel(t *testing.T) {
	m, logger := NewManager(Config{Level: "info", Format: "text"})
	defer m.Close() //nolint:errcheck

	if logger.Enabled(nil, slog.LevelDebug) { //nolint:staticcheck
		t.Error("debug should be disabled at info level")
	}

	m.Reconfigure(Config{Level: "debug", Format: "text"})

	if !logger.Enabled(nil, slog.LevelDebug) { //nolint:staticcheck
		t.Error("debug should be enabled after reconfigure")
	}
}

func TestReconfigureKeepsDerivedLoggers(t *testing.T) {
	m, logger := NewManager(Config{Level: "info", Format: "json"})
	defer m.Close() //nolint:errcheck

	derived := logger.With(slog.String("component", "resolver"))
	m.Reconfigure(Config{Level: "error", Format: "json"})

	if derived.Enabled(nil, slog.LevelInfo) { //nolint:staticcheck
		t.Error("derived logger should observe the new level")
	}
}

func TestValidators(t *testing.T) {
	if !ValidLevel("warn") || ValidLevel("loud") {
		t.Error("ValidLevel mismatch")
	}
	if !ValidFormat("json") || ValidFormat("xml") {
		t.Error("ValidFormat mismatch")
	}
}
