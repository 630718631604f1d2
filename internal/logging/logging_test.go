package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewHonorsLevel(t *testing.T) {
	logger, err := New("warn", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) || !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn level")
	}

	logger, _ = New("warn", true)
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("verbose must force debug")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestInstallReplacesGlobal(t *testing.T) {
	logger := zap.NewNop()
	restore := Install(logger)
	defer restore()
	if zap.L() != logger {
		t.Fatalf("expected global logger to be replaced")
	}
}
