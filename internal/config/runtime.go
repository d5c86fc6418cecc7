package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Runtime holds the control daemon's own operating parameters, persisted as
// YAML rather than the per-project JSON settings in config.go. It plays the
// same role the wing's own identity/policy file used to: host-level knobs
// that apply across every project the daemon manages. Runtime is only
// loaded, saved and merged here: internal/daemon reads config.Config,
// not Runtime.
type Runtime struct {
	// DefaultMemory is the memory ceiling, in bytes, for computers whose
	// project directory has no memory.txt.
	DefaultMemory int64 `yaml:"default_memory,omitempty"`

	// SignalQueueCapacity bounds each computer's pending signal FIFO.
	SignalQueueCapacity int `yaml:"signal_queue_capacity,omitempty"`

	// TickInterval is a Go duration string ("100ms", "1s"). The daemon
	// has no polling or frame-flush loop that reads it.
	TickInterval string `yaml:"tick_interval,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`

	SocketPath       string `yaml:"socket_path,omitempty"`
	ScreenStreamAddr string `yaml:"screen_stream_addr,omitempty"`

	// DataRoot is a directory path. Filesystem components do not read
	// it: each one is confined by a sandbox.Jail rooted in the data/
	// directory of its own component directory.
	DataRoot string `yaml:"data_root,omitempty"`
}

// LoadRuntime reads settings.yaml from dir. A missing file yields a
// zero-value Runtime and no error, matching how project settings are
// optional layers on top of built-in defaults.
func LoadRuntime(dir string) (*Runtime, error) {
	cfg := &Runtime{}
	path := filepath.Join(dir, "settings.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveRuntime writes settings.yaml to dir.
func SaveRuntime(dir string, cfg *Runtime) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "settings.yaml"), data, 0644)
}

// MergeRuntime overlays override onto base: any non-zero field on override
// wins, mirroring the project-over-user precedence used by Manager.
func MergeRuntime(base, override *Runtime) *Runtime {
	merged := *base
	if override.DefaultMemory != 0 {
		merged.DefaultMemory = override.DefaultMemory
	}
	if override.SignalQueueCapacity != 0 {
		merged.SignalQueueCapacity = override.SignalQueueCapacity
	}
	if override.TickInterval != "" {
		merged.TickInterval = override.TickInterval
	}
	if override.LogLevel != "" {
		merged.LogLevel = override.LogLevel
	}
	if override.LogFile != "" {
		merged.LogFile = override.LogFile
	}
	if override.SocketPath != "" {
		merged.SocketPath = override.SocketPath
	}
	if override.ScreenStreamAddr != "" {
		merged.ScreenStreamAddr = override.ScreenStreamAddr
	}
	if override.DataRoot != "" {
		merged.DataRoot = override.DataRoot
	}
	return &merged
}
