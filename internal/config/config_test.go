package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amadren/relkit/internal/errs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EngineSQLite, cfg.Database.Engine)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout.Std())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database:
  engine: postgres
  dsn: postgres://localhost:5432/app
  schema: reporting
  query_timeout: 5s
server:
  addr: ":9090"
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnginePostgres, cfg.Database.Engine)
	assert.Equal(t, "postgres://localhost:5432/app", cfg.Database.DSN)
	assert.Equal(t, "reporting", cfg.Database.Schema)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout.Std())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  engine: sqlite
  dsn: app.db
`)

	t.Setenv("RELKIT_DSN", "override.db")
	t.Setenv("RELKIT_LOG_LEVEL", "warn")
	t.Setenv("RELKIT_QUERY_TIMEOUT", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.db", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 12*time.Second, cfg.Database.QueryTimeout.Std())
}

func TestLoad_UnknownEngine(t *testing.T) {
	path := writeConfig(t, `
database:
  engine: oracle
  dsn: whatever
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_EmptyDSN(t *testing.T) {
	path := writeConfig(t, `
database:
  engine: sqlite
  dsn: ""
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
