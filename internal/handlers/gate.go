package handlers

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/middleware"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/state"
)

// Index is the entry point opened by the bot's menu button: /?user_id=<telegram id>.
func (h *Handler) Index(c *fiber.Ctx) error {
	return h.enter(c, c.Query("user_id"))
}

// Dashboard serves the older /dashboard/:user_id links.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	return h.enter(c, c.Params("user_id"))
}

func (h *Handler) enter(c *fiber.Ctx, rawID string) error {
	sess := middleware.Current(c)
	sess.SetTheme(c.Cookies(themeCookie))

	// Every entry reloads the user; without an id the session is gated again.
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		sess.ReplaceSnapshot(nil)
		return h.gate(c, sess)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		log.Warn().Str("user_id", rawID).Str("sid", sess.ID()).Msg("invalid user id")
		sess.ReplaceSnapshot(nil)
		return h.gate(c, sess)
	}
	if err := h.ctrl.LoadUserData(c.UserContext(), sess, id); err != nil {
		return h.gate(c, sess)
	}
	return h.shell(c, sess)
}

func (h *Handler) gate(c *fiber.Ctx, sess *state.Session) error {
	return c.Render("gate", fiber.Map{
		"Title":         "EarnMoney",
		"Theme":         sess.Theme(),
		"ToastMillis":   models.NotificationDisplay.Milliseconds(),
		"FadeMillis":    models.NotificationFade.Milliseconds(),
		"BotUsername":   h.settings.BotUsername,
		"Notifications": h.hub.Drain(sess.ID()),
	}, "layout")
}

func (h *Handler) shell(c *fiber.Ctx, sess *state.Session) error {
	page, ok := models.ParsePage(string(sess.CurrentPage()))
	if !ok {
		page = models.PageDashboard
	}
	frag := h.ctrl.LoadPage(c.UserContext(), sess, string(page))
	snap := sess.Snapshot()

	return c.Render("shell", fiber.Map{
		"Title":       "EarnMoney · " + page.Title(),
		"Theme":       sess.Theme(),
		"ToastMillis": models.NotificationDisplay.Milliseconds(),
		"FadeMillis":  models.NotificationFade.Milliseconds(),
		"FirstName":   snap.User.FirstName,
		"Balance":     snap.User.Balance,
		"Pages":       models.Pages,
		"Current":     page,
		// fragment comes from our own templates
		"Content": template.HTML(frag.HTML),
	}, "layout")
}
