package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, DefaultImageBaseURL, cfg.Source.ImageBaseURL)
	assert.Equal(t, DefaultLimit, cfg.Source.Limit)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, int64(4<<20), cfg.Source.MaxBodyBytes)
	assert.Equal(t, 15*time.Minute, cfg.Views.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:pokedex.db", cfg.Database.DSN)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
source:
  base_url: "http://localhost:1234/api"
  limit: 2
  timeout_seconds: 5
views:
  ttl_seconds: 60
database:
  driver: postgres
  dsn: "postgres://u:p@localhost/db"
push:
  vapid_public_key: pub
  vapid_private_key: priv
`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1234/api", cfg.Source.BaseURL)
	assert.Equal(t, 2, cfg.Source.Limit)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, time.Minute, cfg.Views.TTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.DSN)
	assert.True(t, cfg.Push.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
