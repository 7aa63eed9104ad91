package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/odsregistry/internal/flagx"
)

// defaultEnvFile is loaded when present and no -e/-env flag is given.
const defaultEnvFile = ".env"

// parseEnv overlays environment variables onto config. Variables that are
// unset leave the current value untouched. A dotenv file never overrides
// variables already present in the process environment.
func parseEnv(config *Config) error {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load(defaultEnvFile)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
