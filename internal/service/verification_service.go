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

type verificationRepository interface {
	Create(ctx context.Context, v *models.CredentialVerification) error
	FindByID(ctx context.Context, id string) (*models.CredentialVerification, error)
	ListByTeacher(ctx context.Context, teacherUserID string) ([]models.CredentialVerification, error)
	Decide(ctx context.Context, id, status string, notes *string, decidedAt time.Time) error
}

type verificationNotifier interface {
	Notify(ctx context.Context, userID string, kind models.NotificationType) error
}

// VerificationService manages credential verification submissions and admin
// decisions. Verification status is informational only; it never feeds the
// discoverability predicate.
type VerificationService struct {
	repo      verificationRepository
	notifier  verificationNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVerificationService constructs a VerificationService instance.
func NewVerificationService(repo verificationRepository, notifier verificationNotifier, validate *validator.Validate, logger *zap.Logger) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VerificationService{repo: repo, notifier: notifier, validator: validate, logger: logger}
}

// Submit records a new credential verification in the submitted state.
func (s *VerificationService) Submit(ctx context.Context, teacherUserID string, req models.CreateVerificationRequest) (*models.CredentialVerification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}

	v := &models.CredentialVerification{
		ID:            uuid.NewString(),
		TeacherUserID: teacherUserID,
		Type:          req.Type,
		Status:        models.VerificationSubmitted,
		SubmittedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create verification")
	}
	return v, nil
}

// ListOwn returns a teacher's verification history, newest first.
func (s *VerificationService) ListOwn(ctx context.Context, teacherUserID string) ([]models.CredentialVerification, error) {
	rows, err := s.repo.ListByTeacher(ctx, teacherUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list verifications")
	}
	return rows, nil
}

// Decide records an admin decision and notifies the teacher that their
// verification status changed.
func (s *VerificationService) Decide(ctx context.Context, id string, req models.DecideVerificationRequest) (*models.CredentialVerification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch verification")
	}

	decidedAt := time.Now().UTC()
	if err := s.repo.Decide(ctx, id, req.Status, req.Notes, decidedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}

	if err := s.notifier.Notify(ctx, existing.TeacherUserID, models.NotificationSystemAlert); err != nil {
		s.logger.Warn("failed to notify teacher of verification decision", zap.Error(err))
	}

	existing.Status = req.Status
	existing.DecidedAt = &decidedAt
	if req.Notes != nil {
		existing.Notes = req.Notes
	}
	return existing, nil
}
