package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("level filters output", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "warn", "text")

		log.Info("quiet")
		log.Warn("loud")

		out := buf.String()
		if strings.Contains(out, "quiet") {
			t.Error("info message emitted at warn level")
		}
		if !strings.Contains(out, "loud") {
			t.Error("warn message missing at warn level")
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info", "json")

		log.Info("hello", "key", "value")

		if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("unknown values fall back to info text", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "verbose-ish", "fancy")

		log.Debug("hidden")
		log.Info("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("debug message emitted at default level")
		}
		if !strings.Contains(out, "shown") {
			t.Error("info message missing at default level")
		}
	})
}
