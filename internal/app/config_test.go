package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
gemini_api_key: from-file
session_secret: file-secret
storage_backend: memory
session_ttl: 1h
cors_origins:
  - https://a.example.com
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, ":9100", cfg.Addr())
	require.Equal(t, "from-file", cfg.GeminiAPIKey)
	require.Equal(t, StorageMemory, cfg.StorageBackend)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"https://a.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 2*time.Hour, cfg.WorkspaceIdleTTL)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadConfig(nil)
	require.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("STORAGE_BACKEND", "floppy")
	_, err = LoadConfig(nil)
	require.ErrorContains(t, err, "unknown STORAGE_BACKEND")

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("SESSION_SECRET", "")
	_, err = LoadConfig(nil)
	require.ErrorContains(t, err, "SESSION_SECRET")
}
