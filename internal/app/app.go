package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/db"
	"github.com/yungbote/campusshare-backend/internal/http"
	"github.com/yungbote/campusshare-backend/internal/observability"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Repos
	Services Services
	Clients  Clients

	pg           *db.PostgresService
	server       *http.Server
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := cfg.Validate(log); err != nil {
		log.Sync()
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info("Configuration loaded", "app_mode", string(cfg.Mode), "port", cfg.Port)
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := repos.New(theDB, log)
	serviceset, err := wireServices(log, cfg, reposet, clients)
	if err != nil {
		clients.close(log)
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	sqlDB, err := theDB.DB()
	if err != nil {
		clients.close(log)
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	handlerset := wireHandlers(log, cfg, sqlDB, serviceset, clients)
	router := wireRouter(log, cfg, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		pg:           pg,
		server:       http.NewServer(":"+cfg.Port, router),
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "port", a.Cfg.Port)
		errCh <- a.server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	a.Log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.close(a.Log)
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("Postgres close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
