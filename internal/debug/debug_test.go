package debug

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTracesGoToInstalledLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	DebugOutput(false, "hidden %d", 1)
	DebugOutput(true, "shown %d", 2)
	DebugTiming(true, "step")()
	DebugTiming(false, "skipped")()

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Message != "shown 2" {
		t.Errorf("first message = %q", entries[0].Message)
	}
	if entries[2].ContextMap()["operation"] != "step" {
		t.Errorf("timing fields = %v", entries[2].ContextMap())
	}
}
