package models

// UserProfile is the "user" half of the snapshot served by GET /api/user/{id}.
type UserProfile struct {
	TelegramID      int64   `json:"telegram_id"`
	Username        string  `json:"username,omitempty"`
	FirstName       string  `json:"first_name"`
	Balance         float64 `json:"balance"`
	TotalEarned     float64 `json:"total_earned"`
	TotalWithdrawn  float64 `json:"total_withdrawn,omitempty"`
	TotalAdsWatched int     `json:"total_ads_watched"`
	IsPremium       bool    `json:"is_premium,omitempty"`
}

// UserStats holds the aggregates computed by the backend.
type UserStats struct {
	TodayEarned      float64 `json:"today_earned"`
	TotalReferrals   int     `json:"total_referrals"`
	ActiveReferrals  int     `json:"active_referrals"`
	ReferralEarnings float64 `json:"referral_earnings"`
}

// UserSnapshot is the cached copy of a user's balance and statistics.
type UserSnapshot struct {
	User  UserProfile `json:"user"`
	Stats UserStats   `json:"stats"`
}

// Clone returns a detached copy; nil stays nil.
func (s *UserSnapshot) Clone() *UserSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
