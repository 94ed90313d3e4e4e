// Package config loads runtime configuration for the crowdops session CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with CROWDOPS_, optionally seeded from a
//     dotenv file selected with -e or -env-file (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// After all sources are applied the result is validated. A missing secret is
// an error: there is no built-in fallback key.
//
// Supported flags
//
//	-s string   encryption secret
//	-alg string AEAD algorithm (aes-256-gcm | chacha20-poly1305)
//	-b string   storage backend (memory | sqlite | postgres | redis)
//	-ttl dur    session lifetime for backends that expire entries
//	-l string   log level
//	-lb string  log backend (zap | slog)
//	-m string   address for the Prometheus /metrics listener
//
// # JSON schema
//
//	{
//	  "secret": "...",
//	  "algorithm": "aes-256-gcm",
//	  "cache_key": false,
//	  "storage_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "session_ttl": "8h",
//	  "log_level": "debug"
//	}
package config
