package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":9180"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile           string        // path to the seed.yaml file (optional, empty = no seeding)
	SuggestionDelay    time.Duration // how long a saved bookmark waits before its suggestion appears
	SuggestionInterval time.Duration // how often pending bookmarks are scanned

	// Redis snapshot persistence (optional, empty addr = memory only)
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout per ping attempt
	SnapshotInterval    time.Duration // how often the store is persisted
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKSTASH_LISTEN_PORT", ":9180"),
		ShutdownTimeout: mustDuration("LINKSTASH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKSTASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKSTASH_PRETTY_LOG", true),

		// Data
		SeedFile:           getenv("LINKSTASH_SEED_FILE", ""),
		SuggestionDelay:    mustDuration("LINKSTASH_SUGGESTION_DELAY", 3*time.Second),
		SuggestionInterval: mustDuration("LINKSTASH_SUGGESTION_INTERVAL", time.Second),

		// Redis settings
		RedisAddr:           getenv("LINKSTASH_REDIS_ADDR", ""),
		RedisPassword:       getenv("LINKSTASH_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("LINKSTASH_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("LINKSTASH_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisConnectTimeout: mustDuration("LINKSTASH_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("LINKSTASH_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("LINKSTASH_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("LINKSTASH_REDIS_PING_TIMEOUT", 5*time.Second),
		SnapshotInterval:    mustDuration("LINKSTASH_SNAPSHOT_INTERVAL", 30*time.Second),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether snapshot persistence is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
