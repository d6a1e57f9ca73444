package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/eduplatform/teacher-store/internal/api/http"
	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/notify"
	"github.com/eduplatform/teacher-store/internal/observability"
	"github.com/eduplatform/teacher-store/internal/persistence"
	"github.com/eduplatform/teacher-store/internal/service"
	"github.com/eduplatform/teacher-store/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, pg, err := persistence.OpenStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer pg.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.App.Name)

	var sessions auth.SessionStore
	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	switch {
	case errors.Is(err, persistence.ErrNotConfigured):
		logger.Warn("REDIS_ADDR not set, session revocations are kept in memory")
		sessions = auth.NewMemorySessionStore()
	case err != nil:
		logger.Fatal("failed to connect redis", zap.Error(err))
	default:
		defer redis.Close()
		sessions = auth.NewRedisSessionStore(redis.Client, tokens.TTL())
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	mailWorker := worker.NewMailWorker(notify.New(cfg.Notification, cfg.App.Name, logger), 256, 2, logger)
	defer mailWorker.Stop()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, store.Users, mailWorker, logger))

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     store.Users,
		Transactor:   store.Tx,
		TokenManager: tokens,
		Sessions:     sessions,
		BcryptCost:   cfg.Auth.BcryptCost,
		Logger:       logger,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    store.Orders,
		AdminLogRepo: store.AdminLogs,
		Transactor:   store.Tx,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:     store.Users,
		OrderRepo:    store.Orders,
		AdminLogRepo: store.AdminLogs,
		Transactor:   store.Tx,
		Sessions:     sessions,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets,
		MessageRepo:  store.Messages,
		AdminLogRepo: store.AdminLogs,
		Transactor:   store.Tx,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	app := httptransport.NewApp(httptransport.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Metrics:  observability.NewMetrics(),
		Auth:     authService,
		Orders:   orderService,
		Admin:    adminService,
		Tickets:  ticketService,
		Users:    store.Users,
		Sessions: sessions,
		Postgres: pg,
		Redis:    redis,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
