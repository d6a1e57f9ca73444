package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/observability"
	"github.com/eduplatform/teacher-store/internal/persistence"
	"github.com/eduplatform/teacher-store/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	store, pg, err := persistence.OpenStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer pg.Close()

	cli := &commandLine{
		auth: service.NewAuthService(service.AuthDependencies{
			UserRepo:     store.Users,
			Transactor:   store.Tx,
			TokenManager: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.App.Name),
			Sessions:     auth.NewMemorySessionStore(),
			BcryptCost:   cfg.Auth.BcryptCost,
			Logger:       logger,
		}),
		seed: cfg.Seed,
		out:  os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
