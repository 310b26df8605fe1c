package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "LOG_LEVEL", "TABLE_PREFIX", "SUPABASE_DB_URL", "DATABASE_URL", "SEARCH_DEBOUNCE_MS", "USE_REMOTE_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 5*time.Second, cfg.RemoteConnectTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionCleanupInterval)
	assert.False(t, cfg.RemoteEnabled(), "no database URL")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DATABASE_URL", "postgres://fallback")
	t.Setenv("SUPABASE_DB_URL", "postgres://supabase")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("SEARCH_DEBOUNCE_MS", "50")
	t.Setenv("REMOTE_CONNECT_TIMEOUT", "2s")
	t.Setenv("USE_REMOTE_STORE", "true")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")

	cfg := Load()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.TablePrefix)
	assert.Equal(t, "postgres://supabase", cfg.DatabaseURL)
	assert.Equal(t, 50*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 2*time.Second, cfg.RemoteConnectTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.True(t, cfg.RemoteEnabled())

	t.Setenv("USE_REMOTE_STORE", "false")
	assert.False(t, Load().RemoteEnabled())

	t.Setenv("TABLE_PREFIX", "none")
	t.Setenv("ENVIRONMENT", "test")
	assert.Equal(t, "", Load().TablePrefix)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := NewLogger(&Config{LogLevel: "info"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Debug("hidden")
	logger.Info("shown", "id", "DOC-1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"id":"DOC-1"`)
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"quotebuilder-2024-01-01T00-00-00.log",
		"quotebuilder-2024-01-02T00-00-00.log",
		"quotebuilder-2024-01-03T00-00-00.log",
		"other.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	left, err := filepath.Glob(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "quotebuilder-2024-01-02T00-00-00.log"),
		filepath.Join(dir, "quotebuilder-2024-01-03T00-00-00.log"),
		filepath.Join(dir, "other.log"),
	}, left)
}
