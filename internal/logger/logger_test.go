package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "occore.log")

	if err := Init("debug", logFile); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello", "key", "value")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to contain output")
	}
}

func TestInitUnknownLevelDefaultsToDebug(t *testing.T) {
	if err := Init("bogus", ""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Log == nil {
		t.Fatal("expected Log to be initialized")
	}
}
