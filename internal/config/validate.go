package config

import (
	"fmt"
	"net/url"
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateServer(cfg); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if err := validateSecurity(cfg); err != nil {
		return fmt.Errorf("invalid security config: %w", err)
	}
	if err := validateAuth(cfg); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}
	if err := validateRateLimit(cfg); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}

	return nil
}

func validateServer(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("SERVER_IDLE_TIMEOUT must be non-negative")
	}
	if cfg.ToolTimeout <= 0 {
		return fmt.Errorf("TOOL_TIMEOUT must be positive")
	}
	if cfg.KillGrace <= 0 {
		return fmt.Errorf("TOOL_KILL_GRACE must be positive")
	}
	return nil
}

// validateSecurity checks the allowlists. Empty allowlists are valid —
// they simply deny every fs/cmd call — so there is nothing to require
// here beyond internal consistency, which the allowlist tools themselves
// enforce by exact-prefix / exact-name matching at call time.
func validateSecurity(cfg *Config) error {
	return nil
}

// validateAuth validates the optional JWT strategy's configuration when
// authorization servers are configured; the plain API-key strategy needs
// no validation beyond AUTH_ENABLED implying a non-empty key set.
func validateAuth(cfg *Config) error {
	if cfg.AuthEnabled && len(cfg.APIKeyHashes) == 0 && len(cfg.AuthorizationServers) == 0 {
		return fmt.Errorf("AUTH_ENABLED requires API_KEY_HASHES or OAUTH_AUTHORIZATION_SERVERS")
	}

	for i, serverURL := range cfg.AuthorizationServers {
		parsedURL, err := url.Parse(serverURL)
		if err != nil {
			return fmt.Errorf("invalid OAUTH_AUTHORIZATION_SERVERS[%d]: %w", i, err)
		}
		if !parsedURL.IsAbs() {
			return fmt.Errorf("OAUTH_AUTHORIZATION_SERVERS[%d] must be an absolute URL", i)
		}
	}

	if len(cfg.AuthorizationServers) > 0 {
		if cfg.Audience == "" {
			return fmt.Errorf("OAUTH_AUDIENCE is required when OAUTH_AUTHORIZATION_SERVERS is set")
		}
		if cfg.JWKSCacheTTL <= 0 {
			return fmt.Errorf("OAUTH_JWKS_CACHE_TTL must be positive")
		}
		if cfg.ClockSkew <= 0 {
			return fmt.Errorf("OAUTH_CLOCK_SKEW must be positive")
		}
	}

	return nil
}

func validateRateLimit(cfg *Config) error {
	if cfg.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}
