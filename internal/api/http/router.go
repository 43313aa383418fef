package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vectorvault/internal/api/http/handlers"
	"github.com/spec-kit/vectorvault/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tasks          *handlers.TasksHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to VectorVault API"})
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Post("/users/register", cfg.Auth.Register)
	app.Post("/token", cfg.Auth.Token)
	app.Post("/tasks/test", cfg.Tasks.CreateTestTask)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/users/me", cfg.Users.Me)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)
}
