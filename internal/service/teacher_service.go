package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type teacherRepository interface {
	FindProfile(ctx context.Context, teacherUserID string) (*models.TeacherProfile, error)
	FindLocation(ctx context.Context, teacherUserID string) (*models.TeacherLocation, error)
}

// TeacherService serves a teacher's own records.
type TeacherService struct {
	repo   teacherRepository
	logger *zap.Logger
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(repo teacherRepository, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, logger: logger}
}

// Profile returns the teacher's own profile.
func (s *TeacherService) Profile(ctx context.Context, teacherUserID string) (*models.TeacherProfile, error) {
	profile, err := s.repo.FindProfile(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}
	return profile, nil
}

// Location returns the teacher's own location.
func (s *TeacherService) Location(ctx context.Context, teacherUserID string) (*models.TeacherLocation, error) {
	location, err := s.repo.FindLocation(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch location")
	}
	return location, nil
}
