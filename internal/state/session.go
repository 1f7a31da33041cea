package state

import (
	"errors"
	"sync"
	"time"

	"earn-dashboard/internal/models"
)

var (
	ErrNoSnapshot = errors.New("user data not loaded")
	ErrBusy       = errors.New("operation already in progress")
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Session is the state of one browser session. Callers get copies; every change goes through
// a method so the snapshot is never mutated from outside.
type Session struct {
	mu sync.Mutex

	id           string
	snapshot     *models.UserSnapshot
	page         models.Page
	theme        string
	adBusy       bool
	withdrawBusy bool
	lastSeen     time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, page: models.PageDashboard, theme: ThemeLight, lastSeen: now}
}

func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the cached user data, or nil when the session is gated.
func (s *Session) Snapshot() *models.UserSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// TelegramID returns the bound user, 0 when gated.
func (s *Session) TelegramID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return 0
	}
	return s.snapshot.User.TelegramID
}

// ReplaceSnapshot swaps the cached user data wholesale. A nil snap gates the session again.
func (s *Session) ReplaceSnapshot(snap *models.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap.Clone()
}

func (s *Session) CurrentPage() models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) SetPage(p models.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme accepts only light or dark; anything else is ignored. The stored value is always one
// of the constants, so callers may pass request-scoped strings.
func (s *Session) SetTheme(theme string) {
	switch theme {
	case ThemeLight:
		theme = ThemeLight
	case ThemeDark:
		theme = ThemeDark
	default:
		return
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
}

// ToggleTheme flips between light and dark and returns the new value.
func (s *Session) ToggleTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

// TryBeginAdWatch marks an ad watch as running. Only one runs per session.
func (s *Session) TryBeginAdWatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return ErrNoSnapshot
	}
	if s.adBusy {
		return ErrBusy
	}
	s.adBusy = true
	return nil
}

func (s *Session) EndAdWatch() {
	s.mu.Lock()
	s.adBusy = false
	s.mu.Unlock()
}

// TryBeginWithdrawal marks a withdrawal submission as outstanding.
func (s *Session) TryBeginWithdrawal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return ErrNoSnapshot
	}
	if s.withdrawBusy {
		return ErrBusy
	}
	s.withdrawBusy = true
	return nil
}

func (s *Session) EndWithdrawal() {
	s.mu.Lock()
	s.withdrawBusy = false
	s.mu.Unlock()
}

// CreditAd applies one ad reward to balance, earnings and the watched counter.
func (s *Session) CreditAd(reward float64) (*models.UserSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	u := &s.snapshot.User
	u.Balance = models.Round2(u.Balance + reward)
	u.TotalEarned = models.Round2(u.TotalEarned + reward)
	u.TotalAdsWatched++
	s.snapshot.Stats.TodayEarned = models.Round2(s.snapshot.Stats.TodayEarned + reward)
	return s.snapshot.Clone(), nil
}

// DebitWithdrawal takes amount off the balance. The balance never goes below zero.
func (s *Session) DebitWithdrawal(amount float64) (*models.UserSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	u := &s.snapshot.User
	u.Balance = models.Round2(u.Balance - amount)
	if u.Balance < 0 {
		u.Balance = 0
	}
	u.TotalWithdrawn = models.Round2(u.TotalWithdrawn + amount)
	return s.snapshot.Clone(), nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
