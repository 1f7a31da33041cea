// Package controller owns the dashboard flows: loading user data, rendering pages, the ad-watch
// reward and withdrawal submission. All state it touches lives in a state.Session.
package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/models"
	"earn-dashboard/internal/render"
	"earn-dashboard/internal/state"
)

// Backend is the earn API the flows call.
type Backend interface {
	LoadUser(ctx context.Context, telegramID int64) (*models.UserSnapshot, error)
	ListAds(ctx context.Context) ([]models.Ad, error)
	SubmitWithdrawal(ctx context.Context, req models.WithdrawalRequest, requestID string) error
}

// Journal stores the activity shown on the history page.
type Journal interface {
	RecordActivity(ctx context.Context, a *models.Activity) error
	RecentActivity(ctx context.Context, telegramID int64, limit int) ([]models.Activity, error)
}

// Publisher forwards flow events to whoever keeps the authoritative ledger.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Notifier shows a transient message in the session's browser.
type Notifier interface {
	Emit(sid, message string, kind models.NotificationKind)
}

type Options struct {
	MinWithdrawal float64
	AdReward      float64
	AdDelay       time.Duration
	HistoryLimit  int
}

type Controller struct {
	backend   Backend
	renderer  *render.Renderer
	notifier  Notifier
	journal   Journal
	publisher Publisher
	opts      Options

	newRequestID func() string
}

func New(backend Backend, renderer *render.Renderer, notifier Notifier, opts Options) *Controller {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	return &Controller{
		backend:      backend,
		renderer:     renderer,
		notifier:     notifier,
		opts:         opts,
		newRequestID: uuid.NewString,
	}
}

// SetJournal enables the history page and activity recording.
func (c *Controller) SetJournal(j Journal) { c.journal = j }

// SetPublisher enables broker events.
func (c *Controller) SetPublisher(p Publisher) { c.publisher = p }

// ApplySnapshot replaces the cached snapshot of every session bound to the pushed user.
func (c *Controller) ApplySnapshot(reg *state.Registry, snap *models.UserSnapshot) int {
	sessions := reg.ForUser(snap.User.TelegramID)
	for _, s := range sessions {
		s.ReplaceSnapshot(snap)
	}
	return len(sessions)
}

func (c *Controller) record(ctx context.Context, a models.Activity) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordActivity(ctx, &a); err != nil {
		log.Error().Err(err).Int64("telegram_id", a.TelegramID).Str("kind", string(a.Kind)).Msg("record activity")
	}
}

func (c *Controller) publish(ctx context.Context, ev models.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, ev); err != nil {
		log.Error().Err(err).Str("type", ev.Type).Int64("telegram_id", ev.TelegramID).Msg("publish event")
	}
}
