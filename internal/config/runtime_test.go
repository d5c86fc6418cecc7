package config

import (
	"path/filepath"
	"testing"
)

func TestLoadRuntimeMissingFile(t *testing.T) {
	cfg, err := LoadRuntime(t.TempDir())
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if cfg.DefaultMemory != 0 {
		t.Errorf("expected zero-value Runtime for missing file, got %+v", cfg)
	}
}

func TestSaveAndLoadRuntimeRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Runtime{
		DefaultMemory:       512 * 1024,
		SignalQueueCapacity: 128,
		TickInterval:        "50ms",
		LogLevel:            "debug",
		DataRoot:            filepath.Join(dir, "data"),
	}
	if err := SaveRuntime(dir, cfg); err != nil {
		t.Fatalf("SaveRuntime: %v", err)
	}

	loaded, err := LoadRuntime(dir)
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if loaded.DefaultMemory != cfg.DefaultMemory || loaded.TickInterval != cfg.TickInterval {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestMergeRuntimeOverridesNonZeroFields(t *testing.T) {
	base := &Runtime{DefaultMemory: 1024, LogLevel: "info", SocketPath: "/run/base.sock"}
	override := &Runtime{LogLevel: "debug"}

	merged := MergeRuntime(base, override)
	if merged.LogLevel != "debug" {
		t.Errorf("expected override log level, got %q", merged.LogLevel)
	}
	if merged.DefaultMemory != 1024 {
		t.Errorf("expected base default memory to survive, got %d", merged.DefaultMemory)
	}
	if merged.SocketPath != "/run/base.sock" {
		t.Errorf("expected base socket path to survive, got %q", merged.SocketPath)
	}
}
