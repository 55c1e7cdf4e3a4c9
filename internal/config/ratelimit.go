package config

import "time"

// RateLimitConfig defines settings for the fixed-window rate limiter.
// Limit is the number of requests allowed per client within Window.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig.  Defaults allow 120 requests per minute.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: getenvDefault("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   atoi(getenvDefault("RATE_LIMIT_PER_WINDOW", "120")),
		Window:  parseDur(getenvDefault("RATE_LIMIT_WINDOW", "1m")),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}
