package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 300, cfg.Poller.Interval)
	assert.Equal(t, 16, cfg.Poller.Workers)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/radman.yaml")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radman.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
web:
  port: 9999
database:
  type: sqlite
poller:
  interval: 30
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 30, cfg.Poller.Interval)
	// Untouched keys keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}
