package handlers

import (
	"github.com/gofiber/fiber/v2"

	"earn-dashboard/internal/middleware"
)

// Page returns the HTML fragment for /app/page/:name.
func (h *Handler) Page(c *fiber.Ctx) error {
	frag := h.ctrl.LoadPage(c.UserContext(), middleware.Current(c), c.Params("name"))
	c.Type("html", "utf-8")
	return c.Send(frag.HTML)
}
