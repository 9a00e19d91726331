package config

import "time"

// Cache modes.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// Config holds runtime settings for the taskboard CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - CacheMode: "memory" (default) or "sqlite" for a cache that survives restarts.
//   - CacheDSN: SQLite database path, used when CacheMode is "sqlite".
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerURL           string
	CacheMode           string
	CacheDSN            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3001"
	c.CacheMode = CacheMemory
	c.CacheDSN = "taskboard_cache.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
