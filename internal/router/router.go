package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/focus-mentor-api/internal/config"
	"github.com/noah-isme/focus-mentor-api/internal/handler"
	"github.com/noah-isme/focus-mentor-api/internal/middleware"
	"github.com/noah-isme/focus-mentor-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler      *handler.StudentHandler
	CheckinHandler      *handler.CheckinHandler
	InterventionHandler *handler.InterventionHandler
	RealtimeHandler     *handler.RealtimeHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(app)
	}

	if deps.CheckinHandler != nil {
		app.Use("/daily-checkin", middleware.RateLimit("checkin", cfg.CheckinRateLimit, time.Minute))
		deps.CheckinHandler.Register(app)
	}

	if deps.InterventionHandler != nil {
		deps.InterventionHandler.Register(app)
	}

	if deps.RealtimeHandler != nil {
		deps.RealtimeHandler.Register(app)
	}
}
