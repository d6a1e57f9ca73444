package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eduplatform/teacher-store/internal/api/http/handlers"
	"github.com/eduplatform/teacher-store/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.AuthMiddleware.Identify)
	api.Get("/bundles", cfg.Orders.ListBundles)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)

	user := api.Group("/user", auth.RequireAuthenticated())
	user.Get("/profile", cfg.Users.Profile)
	user.Put("/profile", cfg.Users.UpdateProfile)
	user.Put("/password", cfg.Users.ChangePassword)

	orders := api.Group("/orders", auth.RequireAuthenticated())
	orders.Post("/", cfg.Orders.CreateOrder)
	orders.Get("/", cfg.Orders.ListMyOrders)

	tickets := api.Group("/tickets", auth.RequireAuthenticated())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/orders", cfg.Admin.ListOrders)
	admin.Post("/orders/:id/confirm", cfg.Admin.ConfirmPayment)
	admin.Get("/teachers", cfg.Admin.ListTeachers)
	admin.Put("/teachers", cfg.Admin.SetTeacherStatusFromBody)
	admin.Put("/teachers/:id/status", cfg.Admin.SetTeacherStatus)
	admin.Get("/tickets", cfg.Admin.ListTickets)
	admin.Put("/tickets", cfg.Admin.UpdateTicketStatusFromBody)
	admin.Put("/tickets/:id/status", cfg.Admin.UpdateTicketStatus)
	admin.Get("/logs", cfg.Admin.ListLogs)
}
