package app

import (
	"testing"
	"time"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(logger.NewNop()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Mode != services.ModeStrict {
		t.Fatalf("default mode should be STRICT, got %s", cfg.Mode)
	}
	if cfg.JWTTTL != 720*time.Hour || cfg.PasscodeTTL != 10*time.Minute {
		t.Fatalf("unexpected ttl defaults: %s %s", cfg.JWTTTL, cfg.PasscodeTTL)
	}
	if cfg.Port != "5000" || cfg.Postgres.Port != "5432" {
		t.Fatalf("unexpected port defaults: %q %q", cfg.Port, cfg.Postgres.Port)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("strict mode should default CORS to the frontend, got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigNestedPrefixes(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "csecret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("NOTES_GCS_BUCKET_NAME", "notes-bucket")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(logger.NewNop()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Postgres.Host != "db.internal" || !cfg.SendGrid.Enabled() || !cfg.Google.Enabled() ||
		!cfg.Redis.Enabled() || !cfg.ObjectStorage.Enabled() || !cfg.Otel.Enabled {
		t.Fatalf("nested config not loaded: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestValidateJWTSecretByMode(t *testing.T) {
	strict := Config{AppMode: "strict", JWTTTL: time.Hour, PasscodeTTL: time.Minute}
	if err := strict.Validate(logger.NewNop()); err == nil {
		t.Fatalf("strict mode without a secret must fail")
	}

	relaxed := Config{AppMode: "relaxed", JWTTTL: time.Hour, PasscodeTTL: time.Minute}
	if err := relaxed.Validate(logger.NewNop()); err != nil {
		t.Fatalf("relaxed: %v", err)
	}
	if relaxed.JWTSecret != devJWTSecret || relaxed.Mode != services.ModeRelaxed {
		t.Fatalf("relaxed fallback not applied: %+v", relaxed)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Config{AppMode: "yolo", JWTSecret: "x", JWTTTL: time.Hour, PasscodeTTL: time.Minute}
	if err := cfg.Validate(logger.NewNop()); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}
