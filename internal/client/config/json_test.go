package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"secret":          "json-secret",
		"storage_backend": "postgres",
		"postgres_dsn":    "postgres://localhost/crowdops",
		"session_ttl":     "90s",
		"cache_key":       true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{LogLevel: "info"}
		parseJson(cfg)

		assert.Equal(t, "json-secret", cfg.Secret)
		assert.Equal(t, "postgres", cfg.StorageBackend)
		assert.Equal(t, "postgres://localhost/crowdops", cfg.PostgresDSN)
		assert.Equal(t, 90*time.Second, cfg.SessionTTL)
		assert.True(t, cfg.CacheKey)
		assert.Equal(t, "info", cfg.LogLevel, "absent keys keep earlier values")
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{Secret: "kept", SessionTTL: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "kept", cfg.Secret)
		assert.Equal(t, 42*time.Second, cfg.SessionTTL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
