package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller on the returned Config.
//
// The config file may be JSON or YAML. The historical Ceres layout
// {"graphql": "...", "token": "..."} is read as is.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("graphql", "")
	v.SetDefault("token", "")
	v.SetDefault("limit", d.Limit)
	v.SetDefault("offset", d.Offset)
	v.SetDefault("request_timeout", d.RequestTimeout.String())
	v.SetDefault("workers", d.Workers)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	// Bind environment variables with GB_ prefix
	v.SetEnvPrefix("GB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Server tokens are environment-only
	if err := validateNoServerTokensInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		GraphQLURL:     strings.TrimSpace(v.GetString("graphql")),
		Token:          strings.TrimSpace(v.GetString("token")),
		Limit:          v.GetInt("limit"),
		Offset:         v.GetInt("offset"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Workers:        v.GetInt("workers"),
		BatchSize:      v.GetInt("batch_size"),
		OutputDir:      v.GetString("output_dir"),
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges. Callers re-run it after applying flag overrides.
func Validate(cfg *Config) error {
	if cfg.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", cfg.Limit)
	}
	if cfg.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", cfg.Offset)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	return nil
}

func validateNoServerTokensInConfig(v *viper.Viper) error {
	if v.InConfig("server.tokens") || v.InConfig("server.token") {
		return fmt.Errorf("server tokens not allowed in config files (use GB_SERVER_TOKEN environment variable)")
	}
	return nil
}
