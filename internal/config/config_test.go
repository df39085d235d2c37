package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/boardsync_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AIEnabled)
}

func TestLoadConfig_RequiredFields(t *testing.T) {
	cases := []struct {
		missing string
		wantErr string
	}{
		{"DATABASE_URL", "DATABASE_URL is required"},
		{"REDIS_URL", "REDIS_URL is required"},
		{"JWT_SECRET", "JWT_SECRET is required"},
	}

	for _, tc := range cases {
		t.Run(tc.missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.missing, "")

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SSE_HEARTBEAT_INTERVAL", "5s")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("AI_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.AIEnabled)
}

func TestLoadConfig_InvalidDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SSE_HEARTBEAT_INTERVAL", "often")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSE_HEARTBEAT_INTERVAL")
}

func TestLoadConfig_FileLayeredUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	file := `
server_port: "7000"
database_url: postgres://filehost:5432/fromfile
redis_url: redis://filehost:6379
jwt_secret: file-secret
heartbeat_interval: 10s
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o600))

	t.Setenv("BOARDSYNC_CONFIG", path)
	// Env wins over the file for the values it sets.
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, "postgres://filehost:5432/fromfile", cfg.DatabaseURL)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOARDSYNC_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_NonPositiveHeartbeatRejected(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SSE_HEARTBEAT_INTERVAL", "0s")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heartbeat interval must be positive")
}
