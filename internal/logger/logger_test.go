package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWith_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "upload").Info("stored blob", "key", "dupont_jean.jpg")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "upload" {
		t.Errorf("expected component field, got %v", fields)
	}
	if fields["key"] != "dupont_jean.jpg" {
		t.Errorf("expected key field, got %v", fields)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("dupont\r\nFAKE ENTRY"); got != "dupontFAKE ENTRY" {
		t.Errorf("unexpected sanitized value %q", got)
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", mode, err)
		}
		l.Debug("hello")
	}
}
