package models

import "time"

type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// Toast timings used by the browser shell.
const (
	NotificationDisplay = 3 * time.Second
	NotificationFade    = 300 * time.Millisecond
)

// Notification is a transient user-facing message.
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
}
