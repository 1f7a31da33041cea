package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"earn-dashboard/internal/controller"
	"earn-dashboard/internal/middleware"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/state"
)

// Withdraw submits the withdraw form. The body is JSON or form-encoded with method, mobile and amount.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	var form controller.WithdrawalForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "bad_request"})
	}

	snap, err := h.ctrl.SubmitWithdrawal(c.UserContext(), sess, form)
	var ve *controller.ValidationError
	switch {
	case err == nil:
		return h.actionResult(c, fiber.StatusOK, sess.ID(), fiber.Map{
			"status":  "success",
			"summary": render.Summary(snap),
		})
	case errors.As(err, &ve):
		return h.actionResult(c, fiber.StatusUnprocessableEntity, sess.ID(), fiber.Map{
			"status":  "invalid",
			"field":   ve.Field,
			"message": ve.Message,
		})
	case errors.Is(err, state.ErrNoSnapshot):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "gated"})
	case errors.Is(err, state.ErrBusy):
		return h.actionResult(c, fiber.StatusConflict, sess.ID(), fiber.Map{"status": "busy"})
	default:
		return h.actionResult(c, fiber.StatusBadGateway, sess.ID(), fiber.Map{"status": "error"})
	}
}
