package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/campusshare-backend/internal/db"
	"github.com/yungbote/campusshare-backend/internal/observability"
	"github.com/yungbote/campusshare-backend/internal/platform/gcp"
	"github.com/yungbote/campusshare-backend/internal/platform/google"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/platform/redis"
	"github.com/yungbote/campusshare-backend/internal/platform/sendgrid"
	"github.com/yungbote/campusshare-backend/internal/services"
)

// devJWTSecret is only ever used in RELAXED mode when JWT_SECRET is unset.
const devJWTSecret = "campusshare-dev-secret-change-me"

type Config struct {
	Port        string        `env:"PORT" envDefault:"5000"`
	AppMode     string        `env:"APP_MODE" envDefault:"strict"`
	LogMode     string        `env:"LOG_MODE" envDefault:"development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"720h"`
	PasscodeTTL time.Duration `env:"OTP_TTL" envDefault:"10m"`
	FrontendURL string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:","`
	// SecureCookies marks the OAuth state cookies Secure; turn it off only
	// for plain-http local development.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`

	Postgres      db.Config                `envPrefix:"POSTGRES_"`
	SendGrid      sendgrid.Config          `envPrefix:"SENDGRID_"`
	Google        google.Config            `envPrefix:"GOOGLE_"`
	Redis         redis.Config             `envPrefix:"REDIS_"`
	Otel          observability.OtelConfig `envPrefix:"OTEL_"`
	ObjectStorage gcp.Config

	// Mode is parsed from AppMode by Validate.
	Mode services.Mode
}

// LoadConfig reads the environment once. Nothing else in the process reads
// environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate resolves the mode and applies the rules that depend on it.
// Warnings are logged rather than returned.
func (c *Config) Validate(log *logger.Logger) error {
	mode, err := services.ParseMode(c.AppMode)
	if err != nil {
		return err
	}
	c.Mode = mode

	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	if c.JWTSecret == "" {
		if !mode.Relaxed() {
			return errors.New("JWT_SECRET is required when APP_MODE=strict")
		}
		log.Warn("JWT_SECRET not set; using the development secret", "app_mode", string(mode))
		c.JWTSecret = devJWTSecret
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.PasscodeTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive, got %s", c.PasscodeTTL)
	}
	c.FrontendURL = strings.TrimRight(strings.TrimSpace(c.FrontendURL), "/")

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
	if len(c.CORSOrigins) == 0 && c.FrontendURL != "" && !mode.Relaxed() {
		c.CORSOrigins = []string{c.FrontendURL}
	}

	if mode.Relaxed() {
		log.Warn("APP_MODE=relaxed: passcode dispatch failures are tolerated and dummy login is enabled")
	}
	return nil
}
