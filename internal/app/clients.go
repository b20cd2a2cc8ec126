package app

import (
	"context"
	"fmt"

	"github.com/yungbote/campusshare-backend/internal/platform/gcp"
	"github.com/yungbote/campusshare-backend/internal/platform/google"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/platform/redis"
	"github.com/yungbote/campusshare-backend/internal/platform/sendgrid"
)

// Clients holds the optional external integrations. A nil field means the
// integration is not configured.
type Clients struct {
	SendGrid sendgrid.Client
	Bucket   gcp.BucketService
	Redis    *redis.Client
	Google   *google.Provider
}

// wireClients fails only when an integration is configured but unusable.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.SendGrid.Enabled() {
		c, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		out.SendGrid = c
	} else {
		log.Warn("SENDGRID_API_KEY not set; passcode email is disabled")
	}

	if cfg.ObjectStorage.Enabled() {
		b, err := gcp.NewBucketService(ctx, log, cfg.ObjectStorage)
		if err != nil {
			return Clients{}, fmt.Errorf("init bucket service: %w", err)
		}
		out.Bucket = b
	} else {
		log.Warn("No storage buckets configured; uploads are disabled")
	}

	if cfg.Redis.Enabled() {
		r, err := redis.New(ctx, log, cfg.Redis)
		if err != nil {
			out.close(log)
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = r
	}

	if cfg.Google.Enabled() {
		p, err := google.New(ctx, log, cfg.Google)
		if err != nil {
			out.close(log)
			return Clients{}, fmt.Errorf("init google provider: %w", err)
		}
		out.Google = p
	} else {
		log.Info("Google OAuth not configured")
	}
	return out, nil
}

func (c Clients) close(log *logger.Logger) {
	if c.Bucket != nil {
		if err := c.Bucket.Close(); err != nil {
			log.Warn("Bucket close failed", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("Redis close failed", "error", err)
		}
	}
}
