package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kastheco/reviewgate/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	log.Initialize(false)
	code := m.Run()
	log.Close()
	os.Exit(code)
}

func TestLoadConfigFrom(t *testing.T) {
	t.Run("parses valid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
telemetry_enabled = false
sentry_dsn = "https://key@sentry.example/1"

[audit]
enabled = true
path = "/var/tmp/gate.db"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfigFrom(path)
		require.NoError(t, err)

		assert.False(t, cfg.IsTelemetryEnabled())
		assert.Equal(t, "https://key@sentry.example/1", cfg.SentryDSN)
		assert.True(t, cfg.Audit.Enabled)
		dbPath, err := cfg.AuditDBPath()
		require.NoError(t, err)
		assert.Equal(t, "/var/tmp/gate.db", dbPath)
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := LoadConfigFrom("/nonexistent/config.toml")
		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("returns error on invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[invalid toml\n"), 0o644))

		_, err := LoadConfigFrom(path)
		assert.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.toml"))

		cfg := LoadConfig()
		assert.True(t, cfg.IsTelemetryEnabled())
		assert.False(t, cfg.Audit.Enabled)
		assert.Empty(t, cfg.SentryDSN)
	})

	t.Run("defaults when file is malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("audit = ["), 0o644))
		t.Setenv(EnvConfigPath, path)

		cfg := LoadConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("honors override path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[audit]\nenabled = true\n"), 0o644))
		t.Setenv(EnvConfigPath, path)

		cfg := LoadConfig()
		assert.True(t, cfg.Audit.Enabled)
	})
}

func TestSaveConfigTo(t *testing.T) {
	t.Run("round-trips through save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.toml")
		off := false
		original := &Config{
			TelemetryEnabled: &off,
			Audit:            AuditConfig{Enabled: true, Path: "/tmp/a.db"},
		}

		require.NoError(t, SaveConfigTo(original, path))

		loaded, err := LoadConfigFrom(path)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})
}

func TestAuditDBPath_DefaultsToConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	path, err := cfg.AuditDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "reviewgate", AuditFileName), path)
}
