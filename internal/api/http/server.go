package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/api/http/handlers"
	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/observability"
	"github.com/eduplatform/teacher-store/internal/persistence"
	"github.com/eduplatform/teacher-store/internal/repository"
	"github.com/eduplatform/teacher-store/internal/service"
)

// Dependencies is everything the HTTP layer needs. Postgres and Redis may be
// nil when the in-memory fallbacks are in use.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Auth     *service.AuthService
	Orders   *service.OrderService
	Admin    *service.AdminService
	Tickets  *service.TicketService
	Users    repository.UserRepository
	Sessions auth.SessionStore
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
}

// NewApp builds the fiber application with middlewares and routes registered.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, cfg.App.RequestTimeout())

	identity := auth.NewMiddleware(deps.Auth.TokenManager(), deps.Users, deps.Sessions, cfg.Auth.CookieName, deps.Logger)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Postgres, deps.Redis, deps.Metrics),
		Users: handlers.NewUsersHandler(deps.Auth, handlers.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}),
		Orders:         handlers.NewOrdersHandler(deps.Orders),
		Tickets:        handlers.NewTicketsHandler(deps.Tickets),
		Admin:          handlers.NewAdminHandler(deps.Admin, deps.Orders, deps.Tickets),
		AuthMiddleware: identity,
	})
	return app
}
