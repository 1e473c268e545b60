package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/scimulator/scimulator/internal/config"
	"github.com/scimulator/scimulator/internal/handlers"
	"github.com/scimulator/scimulator/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	usersV1 *handlers.UsersHandler,
	usersV2 *handlers.UsersHandler,
	groupsV1 *handlers.GroupsHandler,
	groupsV2 *handlers.GroupsHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Optional rate limiter; 0 disables it, the default for a fixture
	// hammered by test suites.
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	// Health (unauthenticated)
	app.Get("/health", healthHandler.Check)

	protected := middleware.Protected(cfg)

	// Both dialects mount the same resource surface under their own prefix
	v1 := app.Group("/scim/v1", protected)
	mountResources(v1, usersV1, groupsV1)

	v2 := app.Group("/scim/v2", protected)
	mountResources(v2, usersV2, groupsV2)

	// Admin surface
	admin := app.Group("/admin", protected)
	admin.Post("/seed", adminHandler.Seed)
	admin.Delete("/clear", adminHandler.Clear)
	admin.Get("/status", adminHandler.Status)
	admin.Get("/config", adminHandler.Config)
	admin.Put("/preset/:name", adminHandler.SetProfile)
	admin.Put("/config/:flag", adminHandler.SetOverride)
	admin.Delete("/config/:flag", adminHandler.ClearOverride)
	admin.Get("/logs", adminHandler.Logs)

	// Deprecated alias kept for clients written against the old path
	admin.Put("/mode/:name", adminHandler.SetProfile)
}

func mountResources(g fiber.Router, users *handlers.UsersHandler, groups *handlers.GroupsHandler) {
	g.Get("/Users", users.List)
	g.Post("/Users", users.Create)
	g.Get("/Users/:id", users.Get)
	g.Put("/Users/:id", users.Replace)
	g.Patch("/Users/:id", users.Patch)
	g.Delete("/Users/:id", users.Delete)

	g.Get("/Groups", groups.List)
	g.Post("/Groups", groups.Create)
	g.Get("/Groups/:id", groups.Get)
	g.Put("/Groups/:id", groups.Replace)
	g.Patch("/Groups/:id", groups.Patch)
	g.Delete("/Groups/:id", groups.Delete)
}
