package model

type NotificationType string

const (
	NotificationTaskAssignment   NotificationType = "task_assignment"
	NotificationReportReminder   NotificationType = "report_reminder"
	NotificationComment          NotificationType = "comment"
	NotificationReportSubmission NotificationType = "report_submission"
)

// Notification is addressed to an organization; all its users share the feed.
type Notification struct {
	ID      string           `json:"id" yaml:"id"`
	Target  string           `json:"target" yaml:"target"`
	Message string           `json:"message" yaml:"message"`
	Date    Date             `json:"date" yaml:"date"`
	Read    bool             `json:"read" yaml:"read"`
	Type    NotificationType `json:"type" yaml:"type"`
}
