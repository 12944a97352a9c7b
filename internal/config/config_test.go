package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdelays/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, storage.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "flights.sqlite3", cfg.Database.SQLite.Path)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "flightdelays.summary", cfg.NATS.Subject)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  driver: postgres
  postgres:
    host: db.internal
    password: secret
output:
  dir: /tmp/plots
server:
  port: 9090
  auth_enabled: true
  api_keys: [a, b]
log_level: debug
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)
	// Unset keys keep their defaults.
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "flights.sqlite3", cfg.Database.SQLite.Path)

	assert.Equal(t, "/tmp/plots", cfg.Output.Dir)
	assert.Equal(t, ServerConfig{Port: 9090, AuthEnabled: true, APIKeys: []string{"a", "b"}}, cfg.Server)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadMissingYAML(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "server: [oops"), "")
	assert.Error(t, err)
}

func TestEnvOverridesDotenvOverridesYAML(t *testing.T) {
	yamlPath := writeFile(t, "config.yaml", "output:\n  dir: from-yaml\nnats:\n  url: nats://yaml:4222\n")
	envPath := writeFile(t, ".env", "FLIGHTDELAYS_OUTPUT_DIR=from-dotenv\nFLIGHTDELAYS_NATS_URL=nats://dotenv:4222\nFLIGHTDELAYS_API_KEYS= k1, ,k2 \n")

	t.Setenv("FLIGHTDELAYS_NATS_URL", "nats://env:4222")
	t.Setenv("POSTGRES_PORT", "6543")

	cfg, err := Load(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Output.Dir)
	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
	assert.Equal(t, 6543, cfg.Database.Postgres.Port)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
}

func TestMissingDotenvIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestInvalidEnvValues(t *testing.T) {
	t.Setenv("MYSQL_PORT", "three")
	t.Setenv("FLIGHTDELAYS_AUTH", "maybe")

	_, err := Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MYSQL_PORT")
	assert.Contains(t, err.Error(), "FLIGHTDELAYS_AUTH")
}

func TestLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "chatty"}.Level())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,,b, "))
}
