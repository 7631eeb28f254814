package mq

// RoutingKeyNotificationCreated is published once per notification record.
const RoutingKeyNotificationCreated = "notification.created"

// NotificationCreatedPayload notification.created 事件的 payload
type NotificationCreatedPayload struct {
	ID      string `json:"id"`
	Target  string `json:"target"` // 接收组织
	Type    string `json:"type"`
	Message string `json:"message"`
	Date    string `json:"date"` // YYYY-MM-DD
}
