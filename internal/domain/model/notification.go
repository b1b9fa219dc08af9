package model

import "time"

// NotificationType drives dashboard iconography only.
type NotificationType string

const (
	NotificationNewQuoteRequest    NotificationType = "new_quote_request"
	NotificationQuoteStatusUpdate  NotificationType = "quote_status_update"
	NotificationNewSampleRequest   NotificationType = "new_sample_request"
	NotificationSampleStatusUpdate NotificationType = "sample_status_update"
	NotificationRequestDeleted     NotificationType = "request_deleted"
	NotificationInfo               NotificationType = "info"
	NotificationWarning            NotificationType = "warning"
	NotificationError              NotificationType = "error"
	NotificationSuccess            NotificationType = "success"
)

// Notification is a staff-facing alert.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	Type      NotificationType
	Link      string
	RelatedID string
	Read      bool
	CreatedAt time.Time
}
