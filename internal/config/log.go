package config

// LogConfig selects the slog handler and minimum level.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn, error
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json or text
}

func LoadLogConfig() (LogConfig, error) {
	var c LogConfig
	if err := parseEnv(&c); err != nil {
		return LogConfig{}, err
	}
	return c, nil
}
