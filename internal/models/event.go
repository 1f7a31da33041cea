package models

import "time"

const (
	EventAdReward            = "ad_reward"
	EventWithdrawalRequested = "withdrawal_requested"
)

// Event is published to the broker after a flow changes the cached balance.
type Event struct {
	Type       string    `json:"type"`
	TelegramID int64     `json:"telegram_id"`
	Amount     float64   `json:"amount"`
	AdID       int64     `json:"ad_id,omitempty"`
	Method     string    `json:"method,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	At         time.Time `json:"at"`
}
