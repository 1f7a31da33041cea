package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/middleware"
)

// UpgradeOnly lets websocket handshakes through and refuses plain requests.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Notifications streams the session's notifications as JSON {message, kind} frames.
// Anything emitted while no socket was open is flushed on connect.
func (h *Handler) Notifications(conn *websocket.Conn) {
	defer conn.Close()

	sid, _ := conn.Locals(middleware.LocalSessionID).(string)
	if sid == "" {
		log.Warn().Msg("websocket without session")
		return
	}
	sub := h.hub.Subscribe(sid)
	defer sub.Close()
	log.Debug().Str("sid", sid).Msg("notification stream opened")

	// the browser never sends anything; reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case n, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				log.Debug().Err(err).Str("sid", sid).Msg("notification write")
				return
			}
		case <-closed:
			log.Debug().Str("sid", sid).Msg("notification stream closed")
			return
		}
	}
}
