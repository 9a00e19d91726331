package config

import "github.com/dmitrijs2005/taskboard/internal/flagx"

func parseEnv(cfg *Config) {
	flagx.EnvString(&cfg.ServerURL, "TASKBOARD_SERVER_URL")
	flagx.EnvString(&cfg.CacheMode, "TASKBOARD_CACHE")
	flagx.EnvString(&cfg.CacheDSN, "TASKBOARD_CACHE_DSN")
}
