package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/cryptox"
	"github.com/dmitrijs2005/crowdops/internal/logging"
	"github.com/dmitrijs2005/crowdops/internal/storage/factory"
)

var (
	ErrSecretRequired   = errors.New("secret is required")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownBackend   = errors.New("unknown storage backend")
	ErrUnknownLogger    = errors.New("unknown log backend")
)

// Config holds runtime settings for the session CLI.
type Config struct {
	Secret    string
	Algorithm string
	CacheKey  bool

	StorageBackend string
	MemoryMaxBytes int
	SQLiteDSN      string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration

	LogBackend  string
	LogLevel    string
	LogFile     string
	MetricsAddr string
}

// LoadDefaults populates c with defaults. Secret is deliberately left empty.
func (c *Config) LoadDefaults() {
	c.Algorithm = string(cryptox.AlgorithmAESGCM)
	c.StorageBackend = factory.BackendMemory
	c.MemoryMaxBytes = 5 << 20
	c.SQLiteDSN = ":memory:"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionTTL = 8 * time.Hour
	c.LogBackend = logging.BackendZap
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretRequired
	}
	if _, err := cryptox.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if !factory.ValidBackend(c.StorageBackend) {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.StorageBackend)
	}
	if !logging.ValidBackend(c.LogBackend) {
		return fmt.Errorf("%w: %q", ErrUnknownLogger, c.LogBackend)
	}
	return nil
}

// StorageOptions maps the storage settings onto factory options.
func (c *Config) StorageOptions() factory.Options {
	return factory.Options{
		Backend:        c.StorageBackend,
		MemoryMaxBytes: c.MemoryMaxBytes,
		SQLiteDSN:      c.SQLiteDSN,
		PostgresDSN:    c.PostgresDSN,
		RedisAddr:      c.RedisAddr,
		RedisPassword:  c.RedisPassword,
		RedisDB:        c.RedisDB,
		TTL:            c.SessionTTL,
	}
}

// LoadConfig builds a Config from defaults, environment, JSON and flags, in
// that order, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseJson(cfg)
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
