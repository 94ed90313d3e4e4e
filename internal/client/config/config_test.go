package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, c.Secret)
	assert.Equal(t, "aes-256-gcm", c.Algorithm)
	assert.Equal(t, "memory", c.StorageBackend)
	assert.Equal(t, ":memory:", c.SQLiteDSN)
	assert.Equal(t, 8*time.Hour, c.SessionTTL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "zap", c.LogBackend)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		c.Secret = "s3cret"
		return c
	}

	c := valid()
	require.NoError(t, c.Validate())

	c = valid()
	c.Secret = ""
	require.ErrorIs(t, c.Validate(), ErrSecretRequired)

	c = valid()
	c.Algorithm = "rot13"
	require.ErrorIs(t, c.Validate(), ErrUnknownAlgorithm)

	c = valid()
	c.StorageBackend = "floppy"
	require.ErrorIs(t, c.Validate(), ErrUnknownBackend)

	c = valid()
	c.LogBackend = "logrus"
	require.ErrorIs(t, c.Validate(), ErrUnknownLogger)

	c = valid()
	c.LogBackend = "slog"
	require.NoError(t, c.Validate())
}

func TestStorageOptions(t *testing.T) {
	c := Config{StorageBackend: "redis", RedisAddr: "cache:6379", RedisDB: 2, SessionTTL: time.Minute}
	opts := c.StorageOptions()

	assert.Equal(t, "redis", opts.Backend)
	assert.Equal(t, "cache:6379", opts.RedisAddr)
	assert.Equal(t, 2, opts.RedisDB)
	assert.Equal(t, time.Minute, opts.TTL)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("CROWDOPS_SECRET", "")
	require.NoError(t, os.Unsetenv("CROWDOPS_SECRET"))

	cfg, err := LoadConfig()
	require.ErrorIs(t, err, ErrSecretRequired)
	assert.Nil(t, cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	envPath := filepath.Join(dir, "crowdops.env")
	require.NoError(t, os.WriteFile(envPath, []byte("CROWDOPS_SECRET=from-env-file\nCROWDOPS_LOG_LEVEL=warn\n"), 0o600))

	jsonPath := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"storage_backend": "sqlite",
		"log_level":       "debug",
	})

	t.Setenv("CROWDOPS_SECRET", "")
	require.NoError(t, os.Unsetenv("CROWDOPS_SECRET"))
	t.Setenv("CROWDOPS_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("CROWDOPS_LOG_LEVEL"))

	os.Args = []string{"testbin", "-e", envPath, "-c", jsonPath, "-l", "error"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env-file", cfg.Secret)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-e", filepath.Join(t.TempDir(), "missing.env")}

	_, err := LoadConfig()
	require.Error(t, err)
}
