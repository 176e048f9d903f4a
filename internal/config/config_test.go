package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "coachbyte"
postgres_user = "postgres"
day_time_zone = "America/New_York"
day_start_time = "04:00"
timer_backend = "file"
timer_file_path = "/tmp/temp_timer.json"

[production]
host = ""
port = 9000
log_level = "debug"
postgres_host = "db.internal"
postgres_port = "5432"
postgres_db_name = "coachbyte"
postgres_user = "coachbyte"
timer_backend = "db"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "America/New_York", cfg.DayTimeZone)
	assert.Equal(t, "04:00", cfg.DayStartTime)
	assert.Equal(t, "file", cfg.TimerBackend)

	prodCfg, err := Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", prodCfg.PostgresHost)
	assert.Equal(t, "db", prodCfg.TimerBackend)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTestConfig(t)

	t.Setenv("COACHBYTE_DB_HOST", "override.host")
	t.Setenv("COACHBYTE_DB_PASSWORD", "s3cret")
	t.Setenv("COACHBYTE_API_KEY", "test-api-key")

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "override.host", cfg.PostgresHost)
	assert.Equal(t, "s3cret", cfg.PostgresPassword)
	assert.Equal(t, "test-api-key", cfg.APIKey)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	_, err := Load("staging", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestValidate_MissingConnectionSettings(t *testing.T) {
	cfg := &Config{
		PostgresHost: "localhost",
		PostgresPort: "5432",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_db_name")
	assert.Contains(t, err.Error(), "postgres_user")
}

func TestValidate_InvalidTimerBackend(t *testing.T) {
	cfg := &Config{
		PostgresHost:   "localhost",
		PostgresPort:   "5432",
		PostgresDBName: "coachbyte",
		PostgresUser:   "postgres",
		TimerBackend:   "redis",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timer_backend")
}
