// Package config loads application configuration from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup. The signing key has no
// default on purpose: it must come from the environment, never from code.
type Config struct {
	// ServerAddr is the HTTP listen address (e.g. :9000).
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	// DatabasePath is the SQLite file path, or ":memory:" for throwaway runs.
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	// Env is the application environment ("development", "production").
	Env string `mapstructure:"APP_ENV"`

	// JWTSigningKey is the HS256 secret; must be at least 32 bytes.
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`
	// JWTIssuer is the iss claim stamped on every token.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTTokenTTL is the token lifetime (e.g. "15m").
	JWTTokenTTL string `mapstructure:"JWT_TOKEN_TTL"`
	// AuthContextKey is where the gate stores verified claims per request.
	AuthContextKey string `mapstructure:"AUTH_CONTEXT_KEY"`
	// AuthScheme is the Authorization header scheme.
	AuthScheme string `mapstructure:"AUTH_SCHEME"`
	// AuthTokenLookup is the comma list of token extractor specs.
	AuthTokenLookup string `mapstructure:"AUTH_TOKEN_LOOKUP"`

	// CORSAllowOrigins is the comma list handed to the CORS middleware.
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	// CleanupSchedule is the cron spec for the maintenance sweep.
	CleanupSchedule string `mapstructure:"CLEANUP_SCHEDULE"`
	// UnverifiedRetention is how long unverified newsletter rows survive.
	UnverifiedRetention string `mapstructure:"UNVERIFIED_RETENTION"`

	// SMTP settings for the newsletter mailer. Empty host means mail is a
	// no-op, which is what development wants.
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort string `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`
	// PublicBaseURL is the externally visible site root used in mail links.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
}

// Load reads .env (if present) then the environment. Env vars win over .env.
// A missing .env is not an error; a missing signing key is.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env vars through Unmarshal; every
	// key has to be bound explicitly.
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	v.SetDefault("SERVER_ADDR", ":9000")
	v.SetDefault("DATABASE_PATH", "blogapi.db")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_ISSUER", "blogapi")
	v.SetDefault("JWT_TOKEN_TTL", "15m")
	v.SetDefault("AUTH_CONTEXT_KEY", "claims")
	v.SetDefault("AUTH_SCHEME", "Bearer")
	v.SetDefault("AUTH_TOKEN_LOOKUP", "header:Authorization")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("CLEANUP_SCHEDULE", "@hourly")
	v.SetDefault("UNVERIFIED_RETENTION", "72h")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:9000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSigningKey == "" {
		return nil, errors.New("config: JWT_SIGNING_KEY must be set")
	}

	return &cfg, nil
}

// configKeys is every env var Load understands; keep it in sync with the
// mapstructure tags on Config.
var configKeys = []string{
	"SERVER_ADDR",
	"DATABASE_PATH",
	"APP_ENV",
	"JWT_SIGNING_KEY",
	"JWT_ISSUER",
	"JWT_TOKEN_TTL",
	"AUTH_CONTEXT_KEY",
	"AUTH_SCHEME",
	"AUTH_TOKEN_LOOKUP",
	"CORS_ALLOW_ORIGINS",
	"CLEANUP_SCHEDULE",
	"UNVERIFIED_RETENTION",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASS",
	"SMTP_FROM",
	"PUBLIC_BASE_URL",
}

// GetSigningKey implements auth.Config.
func (c *Config) GetSigningKey() string { return c.JWTSigningKey }

// GetTokenTTL parses JWT_TOKEN_TTL; falls back to 15m if unset or invalid.
func (c *Config) GetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

func (c *Config) GetIssuer() string      { return c.JWTIssuer }
func (c *Config) GetContextKey() string  { return c.AuthContextKey }
func (c *Config) GetAuthScheme() string  { return c.AuthScheme }
func (c *Config) GetTokenLookup() string { return c.AuthTokenLookup }

// RetentionWindow parses UNVERIFIED_RETENTION; falls back to 72h.
func (c *Config) RetentionWindow() time.Duration {
	d, err := time.ParseDuration(c.UnverifiedRetention)
	if err != nil || d <= 0 {
		return 72 * time.Hour
	}
	return d
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// MailEnabled reports whether SMTP is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
