package model

import "time"

// NotificationLog is one delivered notification as recorded by the notifier.
type NotificationLog struct {
	ID             int64
	NotificationID string
	Target         string
	Type           string
	Message        string
	NotifiedOn     Date
	CreatedAt      time.Time
}
