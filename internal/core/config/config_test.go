package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GB_GRAPHQL", "GB_TOKEN", "GB_LIMIT", "GB_OFFSET", "GB_REQUEST_TIMEOUT",
		"GB_WORKERS", "GB_BATCH_SIZE", "GB_OUTPUT_DIR", "GB_SERVER_HOST", "GB_SERVER_PORT",
		"GB_SERVER_TOKEN", "GB_SERVER_TOKEN_1", "GB_SERVER_TOKEN_2",
	} {
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Limit != 100 {
			t.Errorf("expected limit 100, got %d", cfg.Limit)
		}
		if cfg.Offset != 0 {
			t.Errorf("expected offset 0, got %d", cfg.Offset)
		}
		if cfg.RequestTimeout != 60*time.Second {
			t.Errorf("expected timeout 60s, got %v", cfg.RequestTimeout)
		}
		if cfg.Workers != 4 {
			t.Errorf("expected workers 4, got %d", cfg.Workers)
		}
		if cfg.BatchSize != 100 {
			t.Errorf("expected batch_size 100, got %d", cfg.BatchSize)
		}
		if cfg.Server.Port != 50061 {
			t.Errorf("expected server port 50061, got %d", cfg.Server.Port)
		}
	})

	t.Run("ceres json config file", func(t *testing.T) {
		path := writeConfig(t, "config.json", `{"graphql": "https://ceres.example.org/graphql", "token": "abc.def.ghi"}`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.GraphQLURL != "https://ceres.example.org/graphql" {
			t.Errorf("unexpected graphql url: %s", cfg.GraphQLURL)
		}
		if cfg.Token != "abc.def.ghi" {
			t.Errorf("unexpected token: %s", cfg.Token)
		}
		if err := cfg.RequireEndpoint(); err != nil {
			t.Errorf("RequireEndpoint failed: %v", err)
		}
	})

	t.Run("yaml config file", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "limit: 250\nworkers: 8\nserver:\n  port: 6000\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Limit != 250 || cfg.Workers != 8 || cfg.Server.Port != 6000 {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "config.json", `{"graphql": "https://file.example.org/graphql", "limit": 10}`)
		os.Setenv("GB_LIMIT", "500")
		os.Setenv("GB_TOKEN", "from-env")
		defer os.Unsetenv("GB_LIMIT")
		defer os.Unsetenv("GB_TOKEN")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Limit != 500 {
			t.Errorf("expected env limit 500, got %d", cfg.Limit)
		}
		if cfg.Token != "from-env" {
			t.Errorf("expected env token, got %q", cfg.Token)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		os.Setenv("GB_LIMIT", "0")
		defer os.Unsetenv("GB_LIMIT")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for zero limit")
		}
	})

	t.Run("invalid negative offset", func(t *testing.T) {
		os.Setenv("GB_OFFSET", "-1")
		defer os.Unsetenv("GB_OFFSET")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for negative offset")
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		os.Setenv("GB_SERVER_PORT", "70000")
		defer os.Unsetenv("GB_SERVER_PORT")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("server token in file rejected", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "server:\n  token: \"should_be_rejected_0123\"\n")

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected error for server token in config file")
		}
		if err.Error() != "server tokens not allowed in config files (use GB_SERVER_TOKEN environment variable)" {
			t.Errorf("wrong error message: %v", err)
		}
	})

	t.Run("server token in environment accepted", func(t *testing.T) {
		os.Setenv("GB_SERVER_TOKEN", "0123456789abcdef0123")
		defer os.Unsetenv("GB_SERVER_TOKEN")

		if _, err := LoadConfig(""); err != nil {
			t.Errorf("LoadConfig rejected env token: %v", err)
		}
	})
}

func TestRequireEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		token   string
		wantErr bool
	}{
		{name: "valid", url: "https://ceres.example.org/graphql", token: "t", wantErr: false},
		{name: "missing url", url: "", token: "t", wantErr: true},
		{name: "relative url", url: "/graphql", token: "t", wantErr: true},
		{name: "wrong scheme", url: "ftp://ceres.example.org/graphql", token: "t", wantErr: true},
		{name: "missing token", url: "https://ceres.example.org/graphql", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GraphQLURL = tt.url
			cfg.Token = tt.token
			if err := cfg.RequireEndpoint(); (err != nil) != tt.wantErr {
				t.Errorf("RequireEndpoint() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerTokens(t *testing.T) {
	clearEnv(t)

	t.Run("none configured", func(t *testing.T) {
		tokens, err := ServerTokens()
		if err != nil {
			t.Fatalf("ServerTokens failed: %v", err)
		}
		if len(tokens) != 0 {
			t.Errorf("expected no tokens, got %d", len(tokens))
		}
	})

	t.Run("single and numbered", func(t *testing.T) {
		os.Setenv("GB_SERVER_TOKEN", "aaaaaaaaaaaaaaaa")
		os.Setenv("GB_SERVER_TOKEN_1", "bbbbbbbbbbbbbbbb")
		os.Setenv("GB_SERVER_TOKEN_2", "cccccccccccccccc")
		defer os.Unsetenv("GB_SERVER_TOKEN")
		defer os.Unsetenv("GB_SERVER_TOKEN_1")
		defer os.Unsetenv("GB_SERVER_TOKEN_2")

		tokens, err := ServerTokens()
		if err != nil {
			t.Fatalf("ServerTokens failed: %v", err)
		}
		if len(tokens) != 3 {
			t.Errorf("expected 3 tokens, got %d", len(tokens))
		}
	})

	t.Run("too short", func(t *testing.T) {
		os.Setenv("GB_SERVER_TOKEN", "short")
		defer os.Unsetenv("GB_SERVER_TOKEN")

		if _, err := ServerTokens(); err == nil {
			t.Error("expected error for short token")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		os.Setenv("GB_SERVER_TOKEN", "aaaaaaaaaaaaaaaa")
		os.Setenv("GB_SERVER_TOKEN_1", "aaaaaaaaaaaaaaaa")
		defer os.Unsetenv("GB_SERVER_TOKEN")
		defer os.Unsetenv("GB_SERVER_TOKEN_1")

		if _, err := ServerTokens(); err == nil {
			t.Error("expected error for duplicate token")
		}
	})
}
