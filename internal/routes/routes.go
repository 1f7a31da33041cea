package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/websocket/v2"

	"earn-dashboard/internal/handlers"
	"earn-dashboard/internal/middleware"
	"earn-dashboard/internal/state"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, store *session.Store, registry *state.Registry) {
	app.Use(middleware.RequestLogger)

	// Liveness stays outside the session middleware so probes don't create sessions
	app.Get("/health", h.Health)

	app.Use(middleware.Sessions(store, registry))

	// Gate and shell
	app.Get("/", h.Index)
	app.Get("/dashboard/:user_id", h.Dashboard)

	// Theme only needs a session, not user data
	app.Post("/app/theme", h.ToggleTheme)

	// Shell endpoints - require loaded user data
	appGroup := app.Group("/app", middleware.RequireUser)
	appGroup.Get("/page/:name", h.Page)
	appGroup.Post("/ads/:id/watch", h.WatchAd)
	appGroup.Post("/withdraw", h.Withdraw)
	appGroup.Get("/ws", handlers.UpgradeOnly, websocket.New(h.Notifications))
}
