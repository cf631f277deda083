package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. JANUS_DATABASE_PRIMARY_URL.
const EnvPrefix = "JANUS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.replica_max_conns", 0)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.replica_read_only", false)
}

// requiredEnvKeys have no default and are only ever set from the
// environment or config file.
var requiredEnvKeys = []string{
	"database.primary_url",
	"database.replica_url",
}

// bindEnvs registers keys without defaults so AutomaticEnv picks them up
// during Unmarshal.
func bindEnvs(v *viper.Viper) error {
	for _, key := range requiredEnvKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}
	return nil
}
