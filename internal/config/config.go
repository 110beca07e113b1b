// Package config loads the task API configuration from a TOML file.
// A missing file yields the defaults, so the server runs out of the box
// with an in-memory store.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultStoreBackend     = "memory"
	DefaultSQLitePath       = "tasks.db"
	DefaultLogLevel         = "info"
	DefaultReminderSchedule = "0 8 * * *" // daily at 08:00
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
	Search   SearchConfig   `toml:"search"`
	Reminder ReminderConfig `toml:"reminder"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `toml:"backend"`

	// Path is the database file for the sqlite backend.
	Path string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// SearchConfig configures the full-text task index.
type SearchConfig struct {
	Enabled bool `toml:"enabled"`
}

// ReminderConfig configures the due-date reminder sweep.
type ReminderConfig struct {
	Enabled bool `toml:"enabled"`

	// Schedule is a cron expression (standard five-field format).
	Schedule string `toml:"schedule"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			Path:    DefaultSQLitePath,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Reminder: ReminderConfig{
			Schedule: DefaultReminderSchedule,
		},
	}
}

// Load reads the configuration from path, filling unset values with
// defaults. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	if c.Reminder.Enabled && c.Reminder.Schedule == "" {
		return fmt.Errorf("reminder.schedule is required when reminders are enabled")
	}
	return nil
}
