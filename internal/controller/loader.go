package controller

import (
	"context"

	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/client"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/state"
)

// LoadUserData fetches the user's snapshot into the session. On any failure the session stays
// gated; only failures other than "not authenticated" are reported to the user.
func (c *Controller) LoadUserData(ctx context.Context, sess *state.Session, telegramID int64) error {
	snap, err := c.backend.LoadUser(ctx, telegramID)
	if err != nil {
		sess.ReplaceSnapshot(nil)
		class := client.Classify(err)
		if class == client.ClassUnauthenticated {
			log.Info().Err(err).Int64("telegram_id", telegramID).Msg("user not authenticated")
			return err
		}
		log.Error().Err(err).Int64("telegram_id", telegramID).Str("class", class.String()).Msg("load user data")
		c.notifier.Emit(sess.ID(), "Failed to load user data. Please try again.", models.KindError)
		return err
	}
	if snap.User.TelegramID == 0 {
		snap.User.TelegramID = telegramID
	}
	sess.ReplaceSnapshot(snap)
	log.Debug().Int64("telegram_id", telegramID).Str("sid", sess.ID()).Msg("user data loaded")
	return nil
}
