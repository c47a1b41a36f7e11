package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Dialect)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 50, cfg.Admin.DefaultPerPage)
	assert.Equal(t, 1000, cfg.Admin.MaxPerPage)
	assert.False(t, cfg.Filestore.Enabled)
}

func TestLoadFile(t *testing.T) {
	raw := `
server:
  addr: ":9000"
database:
  dialect: mysql
  dsn: "user:pass@tcp(localhost:3306)/app"
  query_timeout: 45s
logging:
  level: debug
  format: console
admin:
  title: "Back Office"
  max_per_page: 200
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, 45*time.Second, cfg.Database.QueryTimeout.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "Back Office", cfg.Admin.Title)
	assert.Equal(t, 200, cfg.Admin.MaxPerPage)
	// Unset sections keep their defaults.
	assert.Equal(t, 50, cfg.Admin.DefaultPerPage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  connect_timeout: soon\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RESTADMIN_ADDR", ":7777")
	t.Setenv("RESTADMIN_DSN", "postgres://localhost/app")
	t.Setenv("RESTADMIN_LOG_LEVEL", "warn")
	t.Setenv("RESTADMIN_FILESTORE_ENDPOINT", "minio:9000")
	t.Setenv("RESTADMIN_MAX_PER_PAGE", "250")

	cfg := FromEnv()

	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost/app", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Filestore.Enabled)
	assert.Equal(t, "minio:9000", cfg.Filestore.Endpoint)
	assert.Equal(t, 250, cfg.Admin.MaxPerPage)
}

func TestDatabaseConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "postgres://localhost/app"
	cfg.Database.QueryTimeout = Duration(10 * time.Second)

	dbCfg := cfg.DatabaseConfig()
	assert.Equal(t, "postgres://localhost/app", dbCfg.DSN)
	assert.Equal(t, 10*time.Second, dbCfg.QueryTimeout)
}
