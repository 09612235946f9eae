package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uofr/urcourses-teststudent/internal/api/http/handlers"
	"github.com/uofr/urcourses-teststudent/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	TestStudent    *handlers.TestStudentHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	protected := app.Group("/test-student", cfg.AuthMiddleware.Handle)
	protected.Get("", cfg.TestStudent.Info)
	protected.Post("", cfg.TestStudent.Create)
	protected.Post("/reset", cfg.TestStudent.Reset)
	protected.Post("/enrolments/:courseid", cfg.TestStudent.Enrol)
	protected.Delete("/enrolments/:courseid", cfg.TestStudent.Unenrol)
}
