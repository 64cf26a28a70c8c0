package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const appDir = "i-forgot-to-record-my-piano"

// Config is the main configuration structure. Every field has a
// working default; a missing config file means "record from the first
// available device into ./midi_captures".
type Config struct {
	// PortName pins capture to one named input port. Empty means use
	// the first port that shows up. If set and the port is absent, the
	// recorder waits for it rather than falling back to another device.
	PortName string `json:"portName,omitempty"`

	OutputDir string `json:"outputDir,omitempty"`

	// IdleTimeoutSec is how long after the last event a take is
	// considered finished and saved.
	IdleTimeoutSec int `json:"idleTimeoutSec,omitempty"`

	// MinNotes is the significance threshold below which an idle-timeout
	// take is discarded.
	MinNotes int `json:"minNotes,omitempty"`

	// TriggerNote is the pitch whose triple-press forces a save and
	// opens the log viewer. 36 is the bottom C on most pad controllers.
	TriggerNote uint8 `json:"triggerNote,omitempty"`

	ReconnectIntervalSec int `json:"reconnectIntervalSec,omitempty"`
	PollIntervalMs       int `json:"pollIntervalMs,omitempty"`

	TicksPerBeat  uint16 `json:"ticksPerBeat,omitempty"`
	MicrosPerBeat int    `json:"microsPerBeat,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:            "midi_captures",
		IdleTimeoutSec:       5 * 60,
		MinNotes:             10,
		TriggerNote:          36,
		ReconnectIntervalSec: 2,
		PollIntervalMs:       10,
		TicksPerBeat:         480,
		MicrosPerBeat:        600000,
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Fields absent from the file keep their defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// IdleTimeout returns the idle timeout as a duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

// ReconnectInterval returns the discovery poll / reconnect backoff interval.
func (c *Config) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalSec) * time.Second
}

// PollInterval returns the inner capture-loop tick interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
