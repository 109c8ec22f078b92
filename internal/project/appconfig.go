package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig holds user preferences persisted between runs. The API base
// URL here overrides the environment when non-empty.
type AppConfig struct {
	APIBaseURL     string `json:"api_base_url,omitempty"`
	DefaultQuality string `json:"default_quality"`
	LastMachineID  string `json:"last_machine_id,omitempty"`
	HistoryLimit   int    `json:"history_limit"`
}

// DefaultAppConfig returns the config used on first run.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultQuality: "normal",
		HistoryLimit:   200,
	}
}

// DefaultConfigDir returns the default directory for application state.
// On all platforms this is ~/.printquote/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".printquote")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultSessionPath returns the default path for the persisted credential.
func DefaultSessionPath() string {
	return filepath.Join(DefaultConfigDir(), "session.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return AppConfig{}, err
	}
	if config.DefaultQuality == "" {
		config.DefaultQuality = "normal"
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultAppConfig().HistoryLimit
	}
	return config, nil
}
