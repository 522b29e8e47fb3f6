package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kastheco/reviewgate/log"
)

const (
	ConfigFileName = "config.toml"
	AuditFileName  = "audit.db"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "REVIEWGATE_CONFIG"
)

// GetConfigDir returns the path to the application's configuration directory,
// ~/.config/reviewgate.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "reviewgate"), nil
}

// ConfigPath returns the config file location, honoring REVIEWGATE_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Config represents the application configuration. It only controls ambient
// behavior; the review policy itself is fixed.
type Config struct {
	// TelemetryEnabled controls whether error reporting via Sentry is active.
	// Defaults to true when not set, but nothing is sent without a DSN.
	TelemetryEnabled *bool `toml:"telemetry_enabled,omitempty" json:"telemetry_enabled,omitempty"`
	// SentryDSN is the Sentry project to report to.
	SentryDSN string `toml:"sentry_dsn,omitempty" json:"sentry_dsn,omitempty"`
	// Audit configures the verdict audit trail.
	Audit AuditConfig `toml:"audit" json:"audit"`
}

// AuditConfig configures the SQLite verdict log.
type AuditConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the database file; empty means audit.db in the config dir.
	Path string `toml:"path,omitempty" json:"path,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{}
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// AuditDBPath returns the audit database location.
func (c *Config) AuditDBPath() (string, error) {
	if c.Audit.Path != "" {
		return c.Audit.Path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AuditFileName), nil
}

// LoadConfig reads the config file. It never fails: a missing file yields the
// defaults, and an unreadable or malformed one yields the defaults plus a
// warning in the log.
func LoadConfig() *Config {
	path, err := ConfigPath()
	if err != nil {
		log.ErrorLog.Printf("failed to get config path: %v", err)
		return DefaultConfig()
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig()
		}
		log.WarningLog.Printf("failed to load config %s: %v", path, err)
		return DefaultConfig()
	}
	return cfg
}

// LoadConfigFrom reads and parses the TOML config at path.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.WarningLog.Printf("unknown config key %q in %s", key.String(), path)
	}
	return cfg, nil
}

// SaveConfigTo writes cfg as TOML to path, creating parent directories.
func SaveConfigTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
