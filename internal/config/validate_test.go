package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a valid configuration for testing.
// Tests can override specific fields as needed.
func validConfig() *Config {
	return &Config{
		Addr:               ":8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		ToolTimeout:        30 * time.Second,
		KillGrace:          500 * time.Millisecond,
		RateLimitPerSecond: 10,
		RateLimitBurst:     20,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config with defaults",
			config:  validConfig(),
			wantErr: false,
		},
		{
			name: "empty Addr",
			config: func() *Config {
				c := validConfig()
				c.Addr = ""
				return c
			}(),
			wantErr:     true,
			errContains: "ADDR",
		},
		{
			name: "negative read timeout",
			config: func() *Config {
				c := validConfig()
				c.ReadTimeout = -1 * time.Second
				return c
			}(),
			wantErr:     true,
			errContains: "READ_TIMEOUT",
		},
		{
			name: "zero idle timeout is valid",
			config: func() *Config {
				c := validConfig()
				c.IdleTimeout = 0
				return c
			}(),
			wantErr: false,
		},
		{
			name: "zero tool timeout is invalid",
			config: func() *Config {
				c := validConfig()
				c.ToolTimeout = 0
				return c
			}(),
			wantErr:     true,
			errContains: "TOOL_TIMEOUT",
		},
		{
			name: "zero kill grace is invalid",
			config: func() *Config {
				c := validConfig()
				c.KillGrace = 0
				return c
			}(),
			wantErr:     true,
			errContains: "KILL_GRACE",
		},
		{
			name: "empty allowlists are valid (deny-by-default)",
			config: func() *Config {
				c := validConfig()
				c.AllowedReadPaths = nil
				c.AllowedWritePaths = nil
				c.AllowedCommands = nil
				return c
			}(),
			wantErr: false,
		},
		{
			name: "auth enabled with no strategy configured",
			config: func() *Config {
				c := validConfig()
				c.AuthEnabled = true
				return c
			}(),
			wantErr:     true,
			errContains: "AUTH_ENABLED",
		},
		{
			name: "auth enabled with api key hashes",
			config: func() *Config {
				c := validConfig()
				c.AuthEnabled = true
				c.APIKeyHashes = []string{"deadbeef"}
				return c
			}(),
			wantErr: false,
		},
		{
			name: "jwt strategy missing audience",
			config: func() *Config {
				c := validConfig()
				c.AuthorizationServers = []string{"https://auth.example.com"}
				return c
			}(),
			wantErr:     true,
			errContains: "AUDIENCE",
		},
		{
			name: "jwt strategy fully configured",
			config: func() *Config {
				c := validConfig()
				c.AuthorizationServers = []string{"https://auth.example.com"}
				c.Audience = "https://example.com/mcp"
				c.JWKSCacheTTL = time.Hour
				c.ClockSkew = time.Minute
				return c
			}(),
			wantErr: false,
		},
		{
			name: "invalid authorization server URL",
			config: func() *Config {
				c := validConfig()
				c.AuthorizationServers = []string{"not-a-url"}
				c.Audience = "https://example.com/mcp"
				return c
			}(),
			wantErr:     true,
			errContains: "AUTHORIZATION_SERVERS",
		},
		{
			name: "zero rate limit is invalid",
			config: func() *Config {
				c := validConfig()
				c.RateLimitPerSecond = 0
				return c
			}(),
			wantErr:     true,
			errContains: "RATE_LIMIT_PER_SECOND",
		},
		{
			name: "zero rate limit burst is invalid",
			config: func() *Config {
				c := validConfig()
				c.RateLimitBurst = 0
				return c
			}(),
			wantErr:     true,
			errContains: "RATE_LIMIT_BURST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() error = nil, want error")
				}
				if tt.errContains != "" && !strings.Contains(strings.ToUpper(err.Error()), strings.ToUpper(tt.errContains)) {
					t.Errorf("Validate() error = %q, want to contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	err := Validate(nil)
	if err == nil {
		t.Error("Validate(nil) should return error")
	}
}
