// Package config parses service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags:
//
//	type Config struct {
//	    JWTSecret string        `env:"JWT_SECRET"`
//	    HTTPPort  int           `env:"HTTP_PORT" envDefault:"8081"`
//	    AccessTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
//	}
//
// Validation beyond type conversion belongs to each service's own Load.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
