package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/state"
)

const (
	LocalSessionID = "sid"
	localSession   = "session"
)

// Sessions binds every request to a fiber session and to its state.Session.
func Sessions(store *session.Store, registry *state.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Error().Err(err).Msg("session lookup")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "session error"})
		}
		sid := sess.ID()
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("sid", sid).Msg("session save")
		}

		c.Locals(LocalSessionID, sid)
		c.Locals(localSession, registry.Get(sid))
		return c.Next()
	}
}

// Current returns the state bound by Sessions, nil when the middleware did not run.
func Current(c *fiber.Ctx) *state.Session {
	s, _ := c.Locals(localSession).(*state.Session)
	return s
}

// RequireUser rejects action endpoints until the gate has loaded user data.
func RequireUser(c *fiber.Ctx) error {
	s := Current(c)
	if s == nil || s.Snapshot() == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "gated"})
	}
	return c.Next()
}
