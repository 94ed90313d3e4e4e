package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/crowdops/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags handled
// here are passed to the flag set, so bootstrap flags such as -c do not
// trip it. It panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-alg", "-b", "-ttl", "-l", "-lb", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Secret, "s", cfg.Secret, "encryption secret")
	fs.StringVar(&cfg.Algorithm, "alg", cfg.Algorithm, "AEAD algorithm (aes-256-gcm | chacha20-poly1305)")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend (memory | sqlite | postgres | redis)")
	fs.DurationVar(&cfg.SessionTTL, "ttl", cfg.SessionTTL, "session lifetime")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "lb", cfg.LogBackend, "log backend (zap | slog)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
