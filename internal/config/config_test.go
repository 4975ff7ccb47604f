package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "exportpilot.db", cfg.Database.DSN)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9090
  mode: debug
log:
  level: debug
  format: text
database:
  dsn: postgres://localhost/exportpilot
watch:
  enabled: true
  roots:
    - /srv/docs
  debounce: 2s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddr())
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "postgres://localhost/exportpilot", cfg.Database.DSN)
	assert.Equal(t, []string{"/srv/docs"}, cfg.Watch.Roots)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EXPORTPILOT_SERVER_PORT", "7070")
	t.Setenv("EXPORTPILOT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")

	cfg = base()
	cfg.Server.Mode = "fast"
	assert.ErrorContains(t, cfg.Validate(), "invalid server mode")

	cfg = base()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")

	cfg = base()
	cfg.Log.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "invalid log format")

	cfg = base()
	cfg.Database.DSN = ""
	assert.ErrorContains(t, cfg.Validate(), "database.dsn")

	cfg = base()
	cfg.Watch.Enabled = true
	cfg.Watch.Roots = nil
	assert.ErrorContains(t, cfg.Validate(), "watch.roots")
}
