package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from environment variables.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// LimitsFile optionally overrides the compiled-in regulatory tables
	// with a YAML file.
	LimitsFile string `env:"LIMITS_FILE"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
