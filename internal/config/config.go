// Package config loads server configuration from environment variables.
//
// Each field's `env` tag names the variable; `envDefault` supplies the
// value when it's unset. Parsing the whole struct in one call keeps the
// entire configuration surface visible in one place.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/blog.db"`
	// LogLevel accepts the slog level names: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
