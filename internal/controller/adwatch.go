package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/models"
	"earn-dashboard/internal/state"
)

var ErrInvalidAd = errors.New("invalid ad id")

// WatchAd plays the simulated ad and credits the fixed reward to the cached snapshot.
// One ad per session runs at a time.
func (c *Controller) WatchAd(ctx context.Context, sess *state.Session, adID int64) (*models.UserSnapshot, error) {
	sid := sess.ID()
	if adID <= 0 {
		return nil, ErrInvalidAd
	}
	if err := sess.TryBeginAdWatch(); err != nil {
		if errors.Is(err, state.ErrBusy) {
			c.notifier.Emit(sid, "Please finish the current ad first.", models.KindWarning)
		}
		return nil, err
	}
	defer sess.EndAdWatch()

	c.notifier.Emit(sid, "📺 Starting ad...", models.KindInfo)

	if err := wait(ctx, c.opts.AdDelay); err != nil {
		c.notifier.Emit(sid, "Ad interrupted, no reward credited.", models.KindWarning)
		return nil, err
	}

	reward := c.opts.AdReward
	snap, err := sess.CreditAd(reward)
	if err != nil {
		return nil, err
	}
	c.notifier.Emit(sid, fmt.Sprintf("🎉 You earned %s!", models.FormatMoney(reward)), models.KindSuccess)
	log.Info().Int64("telegram_id", snap.User.TelegramID).Int64("ad_id", adID).Float64("reward", reward).Msg("ad reward credited")

	now := time.Now().UTC()
	c.record(ctx, models.Activity{
		TelegramID: snap.User.TelegramID,
		Kind:       models.ActivityAdView,
		Amount:     reward,
		AdID:       adID,
		CreatedAt:  now,
	})
	c.publish(ctx, models.Event{
		Type:       models.EventAdReward,
		TelegramID: snap.User.TelegramID,
		Amount:     reward,
		AdID:       adID,
		At:         now,
	})
	return snap, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
