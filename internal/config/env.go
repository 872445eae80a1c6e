package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills target from environment variables according to its `env`
// struct tags.
func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
