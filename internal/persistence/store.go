package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/repository"
	"github.com/eduplatform/teacher-store/internal/repository/memory"
	"github.com/eduplatform/teacher-store/migrations"
)

// OpenStore connects to Postgres, applies migrations when enabled, and
// returns the repositories over it. Without a DSN it falls back to an
// in-memory store and a nil *Postgres.
func OpenStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*repository.Store, *Postgres, error) {
	pg, err := NewPostgres(ctx, cfg, logger)
	if errors.Is(err, ErrNotConfigured) {
		logger.Warn("POSTGRES_DSN not set, using in-memory store; data is lost on restart")
		return memory.NewStore(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.RunMigrations {
		if err := RunMigrations(ctx, pg.Pool, migrations.Files, logger); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return repository.NewPostgresStore(pg.Pool), pg, nil
}
