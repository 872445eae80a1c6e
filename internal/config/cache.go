package config

import "time"

// CacheConfig defines settings for the per-user response cache. When Enabled
// is false or no Redis client is available, caching is skipped entirely.
// Only GET responses with status 200 are cached; bodies larger than
// MaxBodyBytes are served but not stored.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED"        envDefault:"true"`
	TTL          time.Duration `env:"CACHE_TTL"            envDefault:"30s"`
	Prefix       string        `env:"CACHE_PREFIX"         envDefault:"cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES" envDefault:"1048576"`
}

// LoadCacheConfig reads CACHE_* variables, falling back to the defaults above.
func LoadCacheConfig() (CacheConfig, error) {
	var c CacheConfig
	if err := parseEnv(&c); err != nil {
		return CacheConfig{}, err
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	return c, nil
}
