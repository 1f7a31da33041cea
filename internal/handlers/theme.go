package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"earn-dashboard/internal/middleware"
)

// ToggleTheme flips the session theme and mirrors it into a long-lived cookie.
func (h *Handler) ToggleTheme(c *fiber.Ctx) error {
	theme := middleware.Current(c).ToggleTheme()
	c.Cookie(&fiber.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"theme": theme})
}
