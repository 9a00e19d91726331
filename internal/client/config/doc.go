// Package config loads runtime configuration for the taskboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables TASKBOARD_SERVER_URL, TASKBOARD_CACHE,
//     TASKBOARD_CACHE_DSN.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the taskboard API
//	-m string   cache mode: memory or sqlite
//	-d string   SQLite cache path
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_url": "http://localhost:3001",
//	  "cache_mode": "sqlite",
//	  "cache_dsn": "taskboard_cache.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
