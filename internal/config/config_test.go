package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:8090", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 2, cfg.Deck.LowWaterMark)
	assert.Equal(t, 10, cfg.Deck.FetchSize)
	assert.Equal(t, 350*time.Millisecond, cfg.Search.TypingDebounce.Std())
	assert.Equal(t, 120*time.Millisecond, cfg.Search.FilterDebounce.Std())
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.Equal(t, "vitrina.db", cfg.Session.DBPath)
	assert.Equal(t, ":8090", cfg.Serve.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitrina.yaml")
	content := `
api:
  baseUrl: https://api.vitrina.example
  timeout: 5s
search:
  typingDebounce: 200ms
  pageSize: 10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.vitrina.example", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 200*time.Millisecond, cfg.Search.TypingDebounce.Std())
	assert.Equal(t, 10, cfg.Search.PageSize)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2, cfg.Deck.LowWaterMark)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitrina.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: fast\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VITRINA_API_URL", "http://env.example:9000")
	t.Setenv("VITRINA_DB", "/tmp/env.db")
	t.Setenv("VITRINA_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "vitrina.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  baseUrl: http://file.example\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example:9000", cfg.API.BaseURL, "environment beats the file")
	assert.Equal(t, "/tmp/env.db", cfg.Session.DBPath)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
}

func TestLogLevel_UnknownFallsBackToInfo(t *testing.T) {
	var cfg Config
	cfg.Log.Level = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())

	cfg.Log.Level = "ERROR"
	assert.Equal(t, slog.LevelError, cfg.LogLevel(), "level names are case-insensitive")
}
