// Package config provides configuration management for gbapi commands.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds settings for the Ceres client, the batch worker pool and the
// optional gRPC service.
type Config struct {
	GraphQLURL     string
	Token          string
	Limit          int
	Offset         int
	RequestTimeout time.Duration
	Workers        int
	BatchSize      int
	OutputDir      string
	Server         ServerConfig
}

// ServerConfig holds settings for `gbapi serve`.
type ServerConfig struct {
	Host   string
	Port   int
	Tokens []string // accepted bearer tokens; empty disables authentication
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Limit:          100,
		Offset:         0,
		RequestTimeout: 60 * time.Second,
		Workers:        4,
		BatchSize:      100,
		OutputDir:      ".",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 50061,
		},
	}
}

// RequireEndpoint checks the settings needed to talk to the Ceres API.
func (c *Config) RequireEndpoint() error {
	if c.GraphQLURL == "" {
		return fmt.Errorf("graphql endpoint not configured (set \"graphql\" in the config file or GB_GRAPHQL)")
	}
	u, err := url.Parse(c.GraphQLURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("graphql endpoint must be an absolute http(s) URL, got %q", c.GraphQLURL)
	}
	if c.Token == "" {
		return fmt.Errorf("API token not configured (set \"token\" in the config file or GB_TOKEN)")
	}
	return nil
}

// ServerTokens extracts bearer tokens for the gRPC service from environment
// variables. Supports GB_SERVER_TOKEN (single) and GB_SERVER_TOKEN_N
// (rotation: old and new tokens valid together).
func ServerTokens() ([]string, error) {
	var tokens []string
	seen := make(map[string]string)

	add := func(key, val string) error {
		val = strings.TrimSpace(val)
		if len(val) < 16 {
			return fmt.Errorf("%s: token must be at least 16 characters", key)
		}
		if prev, ok := seen[val]; ok {
			return fmt.Errorf("duplicate token found in %s and %s", prev, key)
		}
		seen[val] = key
		tokens = append(tokens, val)
		return nil
	}

	if val := os.Getenv("GB_SERVER_TOKEN"); val != "" {
		if err := add("GB_SERVER_TOKEN", val); err != nil {
			return nil, err
		}
	}
	for i := 1; ; i++ {
		key := fmt.Sprintf("GB_SERVER_TOKEN_%d", i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		if err := add(key, val); err != nil {
			return nil, err
		}
	}
	return tokens, nil
}
