package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds tunables for running a project's computers that the
// on-disk project layout (components.txt, memory.txt, ...) doesn't
// itself specify.
type Config struct {
	// DefaultMemory is the memory ceiling, in bytes, used for a computer
	// whose computers/<name>/memory.txt is missing.
	DefaultMemory int64 `json:"default_memory,omitempty"`

	// SignalQueueCapacity bounds the signal FIFO per computer; pushes
	// beyond this drop the oldest signal rather than growing unbounded.
	SignalQueueCapacity int `json:"signal_queue_capacity,omitempty"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`

	// SocketPath is the control daemon's Unix socket (hostapi.Server).
	SocketPath string `json:"socket_path,omitempty"`

	// ScreenStreamAddr is the TCP address the live screen websocket
	// listens on, e.g. "127.0.0.1:8731". Empty disables it.
	ScreenStreamAddr string `json:"screen_stream_addr,omitempty"`
}

// Manager merges a user-level config with a per-project config, project
// settings taking precedence, mirroring how the project's own computer
// configuration overrides global defaults.
type Manager struct {
	userConfig    *Config
	projectConfig *Config
	merged        *Config
}

func NewManager() *Manager {
	return &Manager{
		userConfig:    &Config{},
		projectConfig: &Config{},
		merged:        &Config{},
	}
}

func (m *Manager) Load(userConfigDir, projectDir string) error {
	userConfigPath := filepath.Join(userConfigDir, "settings.json")
	if err := m.loadConfig(userConfigPath, m.userConfig); err != nil {
		return err
	}

	projectConfigPath := filepath.Join(projectDir, ".occore", "settings.json")
	if err := m.loadConfig(projectConfigPath, m.projectConfig); err != nil {
		return err
	}

	m.mergeConfigs()
	return nil
}

func (m *Manager) loadConfig(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, config)
}

func (m *Manager) mergeConfigs() {
	m.merged = &Config{
		DefaultMemory:       m.getInt64Value(m.userConfig.DefaultMemory, m.projectConfig.DefaultMemory, 256*1024),
		SignalQueueCapacity: m.getIntValue(m.userConfig.SignalQueueCapacity, m.projectConfig.SignalQueueCapacity, 256),
		LogLevel:            m.getStringValue(m.userConfig.LogLevel, m.projectConfig.LogLevel, "info"),
		LogFile:             m.getStringValue(m.userConfig.LogFile, m.projectConfig.LogFile, ""),
		SocketPath:          m.getStringValue(m.userConfig.SocketPath, m.projectConfig.SocketPath, ""),
		ScreenStreamAddr:    m.getStringValue(m.userConfig.ScreenStreamAddr, m.projectConfig.ScreenStreamAddr, ""),
	}
}

func (m *Manager) getStringValue(user, project, defaultValue string) string {
	if project != "" {
		return project
	}
	if user != "" {
		return user
	}
	return defaultValue
}

func (m *Manager) getIntValue(user, project, defaultValue int) int {
	if project != 0 {
		return project
	}
	if user != 0 {
		return user
	}
	return defaultValue
}

func (m *Manager) getInt64Value(user, project, defaultValue int64) int64 {
	if project != 0 {
		return project
	}
	if user != 0 {
		return user
	}
	return defaultValue
}

func (m *Manager) Get() *Config {
	return m.merged
}

func (m *Manager) SaveUserConfig(userConfigDir string) error {
	configPath := filepath.Join(userConfigDir, "settings.json")
	if err := os.MkdirAll(userConfigDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m.userConfig, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

func (m *Manager) SaveProjectConfig(projectDir string) error {
	occoreDir := filepath.Join(projectDir, ".occore")
	configPath := filepath.Join(occoreDir, "settings.json")
	if err := os.MkdirAll(occoreDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m.projectConfig, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
