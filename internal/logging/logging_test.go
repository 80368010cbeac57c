package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Info should be disabled by default")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("Warn should be enabled by default")
	}

	verbose, err := New(true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug should be enabled in verbose mode")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop should never return nil")
	}
	OrNop(nil).Info("discarded")
}
