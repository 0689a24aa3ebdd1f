// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Identity provider (OIDC JWKS endpoint + expected issuer)
	JWKSURL     string `env:"JWKS_URL,required"`
	TokenIssuer string `env:"TOKEN_ISSUER" envDefault:""`

	// Chatroom assembly
	ChatroomSize int    `env:"CHATROOM_SIZES" envDefault:"10"`
	RoomIDLength int    `env:"ROOM_ID_LENGTH" envDefault:"255"`
	InvitePolicy string `env:"INVITE_POLICY" envDefault:"lenient"`
	BackfillPolicy string `env:"BACKFILL_POLICY" envDefault:"best-effort"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ChatroomSize < 1 {
		return fmt.Errorf("CHATROOM_SIZES must be >= 1, got %d", c.ChatroomSize)
	}
	if c.RoomIDLength < 1 {
		return fmt.Errorf("ROOM_ID_LENGTH must be >= 1, got %d", c.RoomIDLength)
	}
	switch c.InvitePolicy {
	case "lenient", "strict":
	default:
		return fmt.Errorf("INVITE_POLICY must be \"lenient\" or \"strict\", got %q", c.InvitePolicy)
	}
	switch c.BackfillPolicy {
	case "best-effort", "strict":
	default:
		return fmt.Errorf("BACKFILL_POLICY must be \"best-effort\" or \"strict\", got %q", c.BackfillPolicy)
	}
	return nil
}
