package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zukunftsstadt/contest-api/internal/config"
	"github.com/zukunftsstadt/contest-api/internal/handler"
	"github.com/zukunftsstadt/contest-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ContestHandler     *handler.ContestHandler
	LeaderboardHandler *handler.LeaderboardHandler
	GalleryHandler     *handler.GalleryHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ContestHandler != nil {
		deps.ContestHandler.Register(api.Group("/contest"))
	}

	if deps.LeaderboardHandler != nil {
		deps.LeaderboardHandler.Register(api.Group("/leaderboard"))
	}

	if deps.GalleryHandler != nil {
		deps.GalleryHandler.Register(api.Group("/gallery"))
	}
}
