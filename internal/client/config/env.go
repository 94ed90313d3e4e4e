package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/common"
	"github.com/dmitrijs2005/crowdops/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with CROWDOPS_* environment variables.
//
// A dotenv file named by -e/-env-file is loaded first; without the flag a
// ".env" in the working directory is used when present. godotenv never
// overrides variables that are already set in the process environment.
func parseEnv(cfg *Config) error {
	envFile := flagx.EnvFileFlags()
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		return lookup(common.EnvPrefix + name)
	}

	strs := map[string]*string{
		"SECRET":         &cfg.Secret,
		"ALGORITHM":      &cfg.Algorithm,
		"STORAGE":        &cfg.StorageBackend,
		"SQLITE_DSN":     &cfg.SQLiteDSN,
		"POSTGRES_DSN":   &cfg.PostgresDSN,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"REDIS_PASSWORD": &cfg.RedisPassword,
		"LOG_BACKEND":    &cfg.LogBackend,
		"LOG_LEVEL":      &cfg.LogLevel,
		"LOG_FILE":       &cfg.LogFile,
		"METRICS_ADDR":   &cfg.MetricsAddr,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	if v, ok := get("CACHE_KEY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_KEY: %w", common.EnvPrefix, err)
		}
		cfg.CacheKey = b
	}

	ints := map[string]*int{
		"REDIS_DB":         &cfg.RedisDB,
		"MEMORY_MAX_BYTES": &cfg.MemoryMaxBytes,
	}
	for name, dst := range ints {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", common.EnvPrefix, name, err)
			}
			*dst = n
		}
	}

	if v, ok := get("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sSESSION_TTL: %w", common.EnvPrefix, err)
		}
		cfg.SessionTTL = d
	}

	return nil
}
