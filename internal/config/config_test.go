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

	assert.Equal(t, 7521, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Store.SQLitePath)
	assert.Equal(t, "linkcards", cfg.Store.MongoDatabase)
	assert.Empty(t, cfg.Browser.RemoteURL)
	assert.Equal(t, 5*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_port: 8080
  shutdown_timeout: 3s
store:
  backend: mongo
  mongo_uri: mongodb://db:27017
browser:
  remote_url: http://localhost:9222
log:
  format: json
`), 0o600))

	t.Setenv("LINKCARDS_SERVER_HTTP_PORT", "9090")
	t.Setenv("LINKCARDS_STORE_MONGO_DATABASE", "links")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "env overrides file")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.Equal(t, "links", cfg.Store.MongoDatabase)
	assert.Equal(t, "http://localhost:9222", cfg.Browser.RemoteURL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7521, cfg.Server.Port)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("LINKCARDS_STORE_BACKEND", "redis")
	_, err := Load("")
	assert.ErrorContains(t, err, "store.backend")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.http_port", envKey("LINKCARDS_SERVER_HTTP_PORT"))
	assert.Equal(t, "store.sqlite_path", envKey("LINKCARDS_STORE_SQLITE_PATH"))
	assert.Equal(t, "debug", envKey("LINKCARDS_DEBUG"))
}
