package main

import (
	"errors"
	"sync"

	"earn-dashboard/internal/models"
)

var (
	errUnknownUser  = errors.New("user not found")
	errInsufficient = errors.New("insufficient balance")
)

var sampleAds = []models.Ad{
	{ID: 1, Title: "📱 Mobile App Review", Description: "Watch this 30-second ad about new mobile app", Duration: 30, Earnings: 5, Category: "mobile"},
	{ID: 2, Title: "🛍️ E-commerce Offer", Description: "Special discount offer for online shopping", Duration: 45, Earnings: 5, Category: "shopping"},
	{ID: 3, Title: "🎮 Game Promotion", Description: "Try this new exciting mobile game", Duration: 60, Earnings: 5, Category: "gaming"},
	{ID: 4, Title: "💼 Job Opportunity", Description: "Find your dream job with us", Duration: 90, Earnings: 7.5, Category: "jobs"},
}

// memStore keeps users in memory. Unknown ids are registered on first lookup unless strict.
type memStore struct {
	mu      sync.Mutex
	users   map[int64]*models.UserSnapshot
	seen    map[string]bool // withdrawal request ids already applied
	balance float64
	strict  bool
}

func newMemStore(startBalance float64, strict bool) *memStore {
	return &memStore{
		users:   make(map[int64]*models.UserSnapshot),
		seen:    make(map[string]bool),
		balance: startBalance,
		strict:  strict,
	}
}

func (s *memStore) user(id int64) (*models.UserSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		if s.strict {
			return nil, errUnknownUser
		}
		u = &models.UserSnapshot{User: models.UserProfile{TelegramID: id, FirstName: "Tester", Balance: s.balance}}
		s.users[id] = u
	}
	return u.Clone(), nil
}

// withdraw applies req once per request id.
func (s *memStore) withdraw(req models.WithdrawalRequest, requestID string) (*models.UserSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.TelegramID]
	if !ok {
		return nil, errUnknownUser
	}
	if requestID != "" && s.seen[requestID] {
		return u.Clone(), nil
	}
	if req.Amount <= 0 || req.Amount > u.User.Balance {
		return nil, errInsufficient
	}
	u.User.Balance = models.Round2(u.User.Balance - req.Amount)
	u.User.TotalWithdrawn = models.Round2(u.User.TotalWithdrawn + req.Amount)
	if requestID != "" {
		s.seen[requestID] = true
	}
	return u.Clone(), nil
}

// credit applies an ad reward reported by a dashboard.
func (s *memStore) credit(id int64, amount float64) (*models.UserSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errUnknownUser
	}
	u.User.Balance = models.Round2(u.User.Balance + amount)
	u.User.TotalEarned = models.Round2(u.User.TotalEarned + amount)
	u.User.TotalAdsWatched++
	u.Stats.TodayEarned = models.Round2(u.Stats.TodayEarned + amount)
	return u.Clone(), nil
}
