// Package config loads configuration structs from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from the process environment using `env` struct tags
// (envDefault, envSeparator, notEmpty and friends per caarlos0/env).
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
