package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListInbox(ctx context.Context, userID string, limit int) ([]models.Message, error)
	ListSent(ctx context.Context, userID string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, receiverID, id string, at time.Time) (bool, error)
}

type messageUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type messageDiscovery interface {
	IsDiscoverable(ctx context.Context, teacherUserID string, dctx models.DiscoveryContext) (bool, error)
}

// MessageService handles direct messaging. Only the school-to-teacher
// pairing is gated: the teacher must be discoverable in the country the
// school names, and the failure is indistinguishable from the teacher not
// existing.
type MessageService struct {
	repo         messageRepository
	users        messageUserRepository
	discovery    messageDiscovery
	validator    *validator.Validate
	logger       *zap.Logger
	historyLimit int
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(repo messageRepository, users messageUserRepository, discovery messageDiscovery, validate *validator.Validate, logger *zap.Logger, historyLimit int) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{
		repo:         repo,
		users:        users,
		discovery:    discovery,
		validator:    validate,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Send delivers a message from the authenticated sender to a receiver.
func (s *MessageService) Send(ctx context.Context, senderID string, senderRole models.UserRole, req models.SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "sender account is not active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch sender")
	}
	if sender.AccountStatus != models.AccountActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "sender account is not active")
	}

	receiver, err := s.users.FindByID(ctx, req.ReceiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch receiver")
	}
	// A suspended receiver looks exactly like a missing one.
	if receiver.AccountStatus != models.AccountActive {
		return nil, appErrors.ErrNotFound
	}

	if senderRole == models.RoleSchool && receiver.Role == models.RoleTeacher {
		if req.CountryCode == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "country_code is required")
		}
		discoverable, err := s.discovery.IsDiscoverable(ctx, receiver.ID, models.DiscoveryContext{
			Date:        time.Now().UTC(),
			CountryCode: *req.CountryCode,
		})
		if err != nil {
			return nil, err
		}
		if !discoverable {
			return nil, appErrors.ErrNotFound
		}
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create message")
	}
	return msg, nil
}

// Inbox lists the most recent messages received by a user.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.Message, error) {
	msgs, err := s.repo.ListInbox(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inbox")
	}
	return msgs, nil
}

// Sent lists the most recent messages sent by a user.
func (s *MessageService) Sent(ctx context.Context, userID string) ([]models.Message, error) {
	msgs, err := s.repo.ListSent(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sent messages")
	}
	return msgs, nil
}

// MarkRead marks a received message as read. Only the receiver may do so.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	ok, err := s.repo.MarkRead(ctx, userID, messageID, time.Now().UTC())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	if !ok {
		return appErrors.ErrNotFound
	}
	return nil
}
