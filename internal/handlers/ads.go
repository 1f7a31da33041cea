package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"earn-dashboard/internal/controller"
	"earn-dashboard/internal/middleware"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/state"
)

// WatchAd runs the ad-watch flow for /app/ads/:id/watch and answers with the new summary.
func (h *Handler) WatchAd(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	adID, err := c.ParamsInt("id")
	if err != nil {
		adID = 0
	}

	snap, err := h.ctrl.WatchAd(c.UserContext(), sess, int64(adID))
	switch {
	case err == nil:
		return h.actionResult(c, fiber.StatusOK, sess.ID(), fiber.Map{
			"status":  "success",
			"summary": render.Summary(snap),
		})
	case errors.Is(err, controller.ErrInvalidAd):
		return h.actionResult(c, fiber.StatusBadRequest, sess.ID(), fiber.Map{"status": "error", "message": "invalid ad"})
	case errors.Is(err, state.ErrNoSnapshot):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "gated"})
	case errors.Is(err, state.ErrBusy):
		return h.actionResult(c, fiber.StatusConflict, sess.ID(), fiber.Map{"status": "busy"})
	default:
		return h.actionResult(c, fiber.StatusInternalServerError, sess.ID(), fiber.Map{"status": "error", "message": err.Error()})
	}
}
