package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type Config struct {
	DSN          string        `env:"DSN"`
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         string        `env:"PORT" envDefault:"5432"`
	User         string        `env:"USER" envDefault:"postgres"`
	Password     string        `env:"PASSWORD"`
	Name         string        `env:"NAME" envDefault:"campusshare"`
	SSLMode      string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLife  time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

// ConnString prefers an explicit DSN over the individual parts.
func (c Config) ConnString() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger, cfg Config) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	serviceLog.Info("Connecting to Postgres...", "host", cfg.Host, "database", cfg.Name)
	db, err := gorm.Open(postgres.Open(cfg.ConnString()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)

	return &PostgresService{db: db, log: serviceLog}, nil
}

// foreignKeys are added after migration; content rows reference their uploader.
var foreignKeys = []struct {
	table, name, column, ref string
}{
	{"note", "fk_note_uploaded_by", "uploaded_by", `"user"("id")`},
	{"question_paper", "fk_question_paper_uploaded_by", "uploaded_by", `"user"("id")`},
	{"content_like", "fk_content_like_user_id", "user_id", `"user"("id") ON DELETE CASCADE`},
	{"content_report", "fk_content_report_user_id", "user_id", `"user"("id") ON DELETE CASCADE`},
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(types.Models()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, fk := range foreignKeys {
		var n int64
		if err := s.db.Raw(
			`SELECT COUNT(*) FROM information_schema.table_constraints WHERE constraint_name = ? AND table_name = ?`,
			fk.name, fk.table,
		).Scan(&n).Error; err != nil {
			return fmt.Errorf("inspect %s: %w", fk.name, err)
		}
		if n > 0 {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %s`,
			fk.table, fk.name, fk.column, fk.ref)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

func (s *PostgresService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
