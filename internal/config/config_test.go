package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "cadence.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, 3, cfg.Schedule.HorizonYears)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CADENCE_SERVER_PORT", "9090")
	t.Setenv("CADENCE_DB_PATH", "/tmp/test.db")
	t.Setenv("CADENCE_TRANSPORT", "stdio")
	t.Setenv("CADENCE_AUTH_ENABLED", "false")
	t.Setenv("CADENCE_HORIZON_YEARS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, 5, cfg.Schedule.HorizonYears)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CADENCE_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("CADENCE_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 7070\nschedule:\n  horizon_years: 2\n  scan_interval: 30m\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("CADENCE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 2, cfg.Schedule.HorizonYears)
	require.Equal(t, "30m", cfg.Schedule.ScanInterval)

	// Env still wins over file
	t.Setenv("CADENCE_SERVER_PORT", "7171")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 7171, cfg.Server.Port)
}
