package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type Config struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

func (c Config) Enabled() bool { return strings.TrimSpace(c.Addr) != "" }

type Client struct {
	*goredis.Client
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        strings.TrimSpace(cfg.Addr),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return &Client{Client: rdb}, nil
}

// ErrStateNotFound means the key never existed, expired or was already taken.
var ErrStateNotFound = errors.New("state not found")

// StateStore holds short-lived single-use values such as OAuth state.
type StateStore struct {
	rdb    goredis.Cmdable
	prefix string
}

func NewStateStore(rdb goredis.Cmdable, prefix string) *StateStore {
	if prefix == "" {
		prefix = "oauth_state:"
	}
	return &StateStore{rdb: rdb, prefix: prefix}
}

func (s *StateStore) key(state string) string { return s.prefix + state }

func (s *StateStore) Put(ctx context.Context, state, value string, ttl time.Duration) error {
	if strings.TrimSpace(state) == "" {
		return fmt.Errorf("state: empty key")
	}
	if ttl <= 0 {
		return fmt.Errorf("state: ttl must be positive")
	}
	return s.rdb.Set(ctx, s.key(state), value, ttl).Err()
}

// Take returns the value and deletes it atomically so a state is usable once.
func (s *StateStore) Take(ctx context.Context, state string) (string, error) {
	if strings.TrimSpace(state) == "" {
		return "", ErrStateNotFound
	}
	val, err := s.rdb.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
