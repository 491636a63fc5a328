package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all kiosk launcher configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Preference store medium
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Idle monitor
	Monitor MonitorConfig `yaml:"monitor"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "kiosk",
		Version: "1.0.0",

		Storage: StorageConfig{
			Backend:     BackendSQLite,
			Path:        filepath.Join("data", "kiosk.db"),
			BusyTimeout: "5s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},

		Monitor: MonitorConfig{
			PollInterval: "1s",
			WatchStorage: true,
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// envOverrides lists the environment variables that win over the YAML file.
type envOverrides struct {
	StoreBackend string `env:"KIOSK_STORE_BACKEND"`
	StorePath    string `env:"KIOSK_STORE_PATH"`
	LogLevel     string `env:"KIOSK_LOG_LEVEL"`
	LogFormat    string `env:"KIOSK_LOG_FORMAT"`
	LogFile      string `env:"KIOSK_LOG_FILE"`
}

func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.StoreBackend != "" {
		c.Storage.Backend = Backend(o.StoreBackend)
	}
	if o.StorePath != "" {
		c.Storage.Path = o.StorePath
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Monitor.Validate()
}
