package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/crowdops/internal/flagx"
	"github.com/dmitrijs2005/crowdops/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell an
// absent key apart from a zero value so that only present keys override.
type JsonConfig struct {
	Secret         *string         `json:"secret"`
	Algorithm      *string         `json:"algorithm"`
	CacheKey       *bool           `json:"cache_key"`
	StorageBackend *string         `json:"storage_backend"`
	MemoryMaxBytes *int            `json:"memory_max_bytes"`
	SQLiteDSN      *string         `json:"sqlite_dsn"`
	PostgresDSN    *string         `json:"postgres_dsn"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisPassword  *string         `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	LogBackend     *string         `json:"log_backend"`
	LogLevel       *string         `json:"log_level"`
	LogFile        *string         `json:"log_file"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays cfg with the JSON file named by -c/-config. It panics
// on read or decode errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.Secret, jc.Secret)
	set(&cfg.Algorithm, jc.Algorithm)
	set(&cfg.CacheKey, jc.CacheKey)
	set(&cfg.StorageBackend, jc.StorageBackend)
	set(&cfg.MemoryMaxBytes, jc.MemoryMaxBytes)
	set(&cfg.SQLiteDSN, jc.SQLiteDSN)
	set(&cfg.PostgresDSN, jc.PostgresDSN)
	set(&cfg.RedisAddr, jc.RedisAddr)
	set(&cfg.RedisPassword, jc.RedisPassword)
	set(&cfg.RedisDB, jc.RedisDB)
	set(&cfg.LogBackend, jc.LogBackend)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFile, jc.LogFile)
	set(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
}
