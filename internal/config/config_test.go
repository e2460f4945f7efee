package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "textflow.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TEXTFLOW_SERVER_HOST", "127.0.0.1")
	t.Setenv("TEXTFLOW_SERVER_PORT", "9090")
	t.Setenv("TEXTFLOW_DB_PATH", ":memory:")
	t.Setenv("TEXTFLOW_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, ":memory:", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("TEXTFLOW_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 3000\ndb:\n  path: /tmp/test.db\n"), 0o644))
	t.Setenv("TEXTFLOW_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	// Unset values keep their defaults.
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 3000\n"), 0o644))
	t.Setenv("TEXTFLOW_CONFIG_PATH", path)
	t.Setenv("TEXTFLOW_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("TEXTFLOW_CONFIG_PATH", "/does/not/exist.yaml")

	_, err := Load()
	require.Error(t, err)
}
