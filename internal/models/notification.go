package models

import "time"

// NotificationType enumerates the notification kinds emitted by the system.
type NotificationType string

const (
	NotificationSystemAlert NotificationType = "system_alert"
	NotificationJobAlert    NotificationType = "job_alert"
)

// Notification is a per-user inbox entry.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"-"`
	Type      NotificationType `db:"type" json:"type"`
	IsRead    bool             `db:"is_read" json:"-"`
	CreatedAt time.Time        `db:"created_at" json:"-"`
}

// NotificationView is the wire shape for notification listings.
type NotificationView struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	ReadStatus string           `json:"read_status"`
	Timestamp  time.Time        `json:"timestamp"`
}

// View projects a notification into its wire shape.
func (n Notification) View() NotificationView {
	status := "unread"
	if n.IsRead {
		status = "read"
	}
	return NotificationView{ID: n.ID, Type: n.Type, ReadStatus: status, Timestamp: n.CreatedAt}
}
