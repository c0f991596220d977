package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/api/http/handlers"
	"github.com/deskhive/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Put("/user/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.AdminUpdateUser)
	authGroup.Get("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.AdminGetUsers)

	ticketGroup := v1.Group("/ticket", cfg.AuthMiddleware.Handle)
	ticketGroup.Post("/", cfg.Tickets.CreateTicket)
	ticketGroup.Put("/process", cfg.Tickets.ProcessTicket)
	ticketGroup.Get("/customer", cfg.Tickets.CustomerTickets)
	ticketGroup.Get("/staff", auth.RequireStaff(), cfg.Tickets.AllTickets)
	ticketGroup.Get("/generate", auth.RequireStaff(), cfg.Reports.Generate)
}
