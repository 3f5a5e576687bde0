// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "local-dictator"
	configFileName = "config.json"
	logFileName    = "local-dictator.log"
)

// Config represents the application configuration. Unknown keys in the file
// are ignored; missing keys keep their defaults.
type Config struct {
	Hotkey             string  `json:"hotkey"`
	MinDurationSeconds float64 `json:"min_duration_seconds"`
	Model              string  `json:"model"`
	Language           string  `json:"language"`
	BeepEnabled        bool    `json:"beep_enabled"`
	ErrorNotifications bool    `json:"error_notifications"`
	LogToFile          bool    `json:"log_to_file"`
	LogToConsole       bool    `json:"log_to_console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Hotkey:             "ctrl+insert",
		MinDurationSeconds: 0.5,
		Model:              "tiny",
		Language:           "en",
		BeepEnabled:        true,
		ErrorNotifications: false,
		LogToFile:          true,
		LogToConsole:       true,
	}
}

// MinDuration returns the minimum recording duration below which a recording
// is discarded.
func (c *Config) MinDuration() time.Duration {
	return time.Duration(c.MinDurationSeconds * float64(time.Second))
}

// Load reads the config file, creating it with defaults on first run.
// A partial file is merged over the defaults.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			// best effort; a read-only config dir is not fatal
			_ = cfg.Save()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return parse(data)
}

// parse unmarshals file data over the defaults so missing keys keep their
// default values.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.MinDurationSeconds < 0 {
		cfg.MinDurationSeconds = 0
	}
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// LogPath returns the log file location next to the config file.
func LogPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, logFileName), nil
}
