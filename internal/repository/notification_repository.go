package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// NotificationRepository manages per-user notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for a user.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, user_id, type, is_read, created_at)
		VALUES (:id, :user_id, :type, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// CreateBatch inserts one notification of the given type for each user.
func (r *NotificationRepository) CreateBatch(ctx context.Context, userIDs []string, kind models.NotificationType) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.Notification, 0, len(userIDs))
	now := time.Now().UTC()
	for _, userID := range userIDs {
		rows = append(rows, models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      kind,
			CreatedAt: now,
		})
	}
	const query = `INSERT INTO notifications (id, user_id, type, is_read, created_at)
		VALUES (:id, :user_id, :type, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("create notifications batch: %w", err)
	}
	return nil
}

// List returns the user's most recent notifications, optionally unread only.
func (r *NotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `SELECT id, user_id, type, is_read, created_at FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	var rows []models.Notification
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

// MarkRead flags one of the user's notifications as read. It reports whether
// a matching row existed.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return affected > 0, nil
}
