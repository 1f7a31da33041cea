package models

import "time"

type ActivityKind string

const (
	ActivityAdView     ActivityKind = "ad_view"
	ActivityWithdrawal ActivityKind = "withdrawal"
)

// Activity is one row of the local journal shown on the history page.
type Activity struct {
	ID         int64        `json:"id"`
	TelegramID int64        `json:"telegram_id"`
	Kind       ActivityKind `json:"kind"`
	Amount     float64      `json:"amount"`
	AdID       int64        `json:"ad_id,omitempty"`
	Method     string       `json:"method,omitempty"`
	Mobile     string       `json:"mobile,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
