package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// envOverrides are the settings that may come from the environment. Unset variables leave the file value alone.
type envOverrides struct {
	Debug              string `env:"KONDATE_DEBUG"`
	ServerHost         string `env:"KONDATE_SERVER_HOST"`
	ServerPort         int    `env:"KONDATE_SERVER_PORT"`
	DatabasePath       string `env:"KONDATE_DATABASE_PATH"`
	GeneratorProvider  string `env:"KONDATE_GENERATOR_PROVIDER"`
	GeneratorModel     string `env:"KONDATE_GENERATOR_MODEL"`
	GeneratorAPIKey    string `env:"KONDATE_GENERATOR_API_KEY"`
	GeneratorEndpoint  string `env:"KONDATE_GENERATOR_ENDPOINT"`
	GeneratorRegion    string `env:"KONDATE_GENERATOR_REGION"`
	TelemetryEnabled   string `env:"KONDATE_TELEMETRY_ENABLED"`
	RateLimitPerMinute int    `env:"KONDATE_RATE_LIMIT_PER_MINUTE"`
}

// ApplyEnv loads a .env file (ENV_FILE overrides the location) and applies
// KONDATE_* variables on top of cfg.
func ApplyEnv(cfg *Config) error {
	if err := loadEnv(); err != nil {
		return err
	}

	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	if env.Debug != "" {
		v, err := strconv.ParseBool(env.Debug)
		if err != nil {
			return fmt.Errorf("invalid KONDATE_DEBUG: %w", err)
		}
		cfg.Debug = v
	}
	if env.TelemetryEnabled != "" {
		v, err := strconv.ParseBool(env.TelemetryEnabled)
		if err != nil {
			return fmt.Errorf("invalid KONDATE_TELEMETRY_ENABLED: %w", err)
		}
		cfg.Telemetry.Enabled = v
	}
	setString(&cfg.Server.Host, env.ServerHost)
	setString(&cfg.Storage.DatabasePath, env.DatabasePath)
	setString(&cfg.Generator.Provider, env.GeneratorProvider)
	setString(&cfg.Generator.Model, env.GeneratorModel)
	setString(&cfg.Generator.APIKey, env.GeneratorAPIKey)
	setString(&cfg.Generator.Endpoint, env.GeneratorEndpoint)
	setString(&cfg.Generator.Region, env.GeneratorRegion)
	if env.ServerPort != 0 {
		cfg.Server.Port = env.ServerPort
	}
	if env.RateLimitPerMinute != 0 {
		cfg.Server.RateLimitPerMinute = env.RateLimitPerMinute
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
