// Package handlers exposes the dashboard over HTTP: the gate and shell pages, fragment loading,
// JSON action endpoints and the notification websocket.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"earn-dashboard/internal/controller"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/notify"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/state"
)

const themeCookie = "theme"

type Handler struct {
	ctrl     *controller.Controller
	hub      *notify.Hub
	registry *state.Registry
	settings render.Settings
}

func New(ctrl *controller.Controller, hub *notify.Hub, registry *state.Registry, settings render.Settings) *Handler {
	return &Handler{ctrl: ctrl, hub: hub, registry: registry, settings: settings}
}

// pending returns the notifications no websocket picked up, never nil so it encodes as [].
func (h *Handler) pending(sid string) []models.Notification {
	out := h.hub.Drain(sid)
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

func (h *Handler) actionResult(c *fiber.Ctx, status int, sid string, body fiber.Map) error {
	body["notifications"] = h.pending(sid)
	return c.Status(status).JSON(body)
}
