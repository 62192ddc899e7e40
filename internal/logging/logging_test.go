package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHonoursLevelAndDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Debug("hidden")
	Component(l, "cache").Info("shown", slog.Int("rows", 3))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "component=cache") || !strings.Contains(out, "rows=3") {
		t.Fatalf("missing attributes: %q", out)
	}

	buf.Reset()
	l, err = New(&buf, "warn", true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("--debug should force debug level: %q", buf.String())
	}

	if _, err := New(&buf, "loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
