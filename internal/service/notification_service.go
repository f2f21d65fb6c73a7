package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

const notificationListLimit = 50

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
}

// NotificationService manages per-user inbox notifications.
type NotificationService struct {
	repo   notificationRepository
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(repo notificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify creates a notification for one user.
func (s *NotificationService) Notify(ctx context.Context, userID string, kind models.NotificationType) error {
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return nil
}

// List returns the user's most recent notifications, optionally restricted
// to unread ones.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.NotificationView, error) {
	rows, err := s.repo.List(ctx, userID, unreadOnly, notificationListLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	views := make([]models.NotificationView, 0, len(rows))
	for _, n := range rows {
		views = append(views, n.View())
	}
	return views, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !ok {
		return appErrors.ErrNotFound
	}
	return nil
}
