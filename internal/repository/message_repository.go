package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// MessageRepository manages direct messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, sender_id, receiver_id, content, read_at, created_at)
		VALUES (:id, :sender_id, :receiver_id, :content, :read_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListInbox returns the newest messages received by a user.
func (r *MessageRepository) ListInbox(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	query := fmt.Sprintf(`SELECT id, sender_id, receiver_id, content, read_at, created_at
		FROM messages WHERE receiver_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var rows []models.Message
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return rows, nil
}

// ListSent returns the newest messages sent by a user.
func (r *MessageRepository) ListSent(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	query := fmt.Sprintf(`SELECT id, sender_id, receiver_id, content, read_at, created_at
		FROM messages WHERE sender_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var rows []models.Message
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list sent: %w", err)
	}
	return rows, nil
}

// MarkRead stamps a received message as read. It reports whether the message
// existed for that receiver.
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, id string, at time.Time) (bool, error) {
	const query = `UPDATE messages SET read_at = $3 WHERE id = $1 AND receiver_id = $2 AND read_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, receiverID, at)
	if err != nil {
		return false, fmt.Errorf("mark message read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark message read: %w", err)
	}
	if affected > 0 {
		return true, nil
	}
	// Re-reading an already-read message still succeeds.
	const existsQuery = `SELECT 1 FROM messages WHERE id = $1 AND receiver_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, existsQuery, id, receiverID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("mark message read: %w", err)
	}
	return true, nil
}
