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

type enterpriseRepository interface {
	Create(ctx context.Context, es *models.EnterpriseSchool) error
	FindByID(ctx context.Context, id string) (*models.EnterpriseSchool, error)
	ListMembers(ctx context.Context, enterpriseSchoolID string) ([]models.EnterpriseMember, error)
	IsMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) (bool, error)
	UpsertMember(ctx context.Context, m *models.EnterpriseMember) error
	DeleteMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) error
	CountFavourites(ctx context.Context, schoolUserIDs []string) (int, error)
	CountNotifications(ctx context.Context, schoolUserIDs []string) (int, error)
}

type enterpriseNotifications interface {
	CreateBatch(ctx context.Context, userIDs []string, kind models.NotificationType) error
}

// EnterpriseService manages enterprise multi-school groups: membership,
// aggregate reporting and notification fan-out.
type EnterpriseService struct {
	repo          enterpriseRepository
	notifications enterpriseNotifications
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewEnterpriseService constructs an EnterpriseService instance.
func NewEnterpriseService(repo enterpriseRepository, notifications enterpriseNotifications, validate *validator.Validate, logger *zap.Logger) *EnterpriseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnterpriseService{repo: repo, notifications: notifications, validator: validate, logger: logger}
}

// Create registers a new enterprise school group.
func (s *EnterpriseService) Create(ctx context.Context, req models.CreateEnterpriseSchoolRequest) (*models.EnterpriseSchool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enterprise payload")
	}
	es := &models.EnterpriseSchool{
		ID:           uuid.NewString(),
		Name:         req.Name,
		BillingEmail: req.BillingEmail,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, es); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enterprise school")
	}
	return es, nil
}

// Get fetches a group. Non-admin callers must be members.
func (s *EnterpriseService) Get(ctx context.Context, id, callerID string, callerRole models.UserRole) (*models.EnterpriseSchool, error) {
	if callerRole != models.RoleAdmin {
		member, err := s.repo.IsMember(ctx, id, callerID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
		}
		if !member {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this enterprise")
		}
	}

	es, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch enterprise school")
	}
	return es, nil
}

// UpsertMember adds a school to the group or updates its role.
func (s *EnterpriseService) UpsertMember(ctx context.Context, enterpriseSchoolID, schoolUserID string, req models.UpsertEnterpriseMemberRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	m := &models.EnterpriseMember{
		EnterpriseSchoolID: enterpriseSchoolID,
		SchoolUserID:       schoolUserID,
		MemberRole:         req.MemberRole,
	}
	if err := s.repo.UpsertMember(ctx, m); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert member")
	}
	return nil
}

// RemoveMember drops a school from the group.
func (s *EnterpriseService) RemoveMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) error {
	if err := s.repo.DeleteMember(ctx, enterpriseSchoolID, schoolUserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove member")
	}
	return nil
}

// Summary aggregates membership and activity counts for a group.
func (s *EnterpriseService) Summary(ctx context.Context, enterpriseSchoolID string) (*models.EnterpriseSummary, error) {
	members, err := s.repo.ListMembers(ctx, enterpriseSchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.SchoolUserID)
	}

	favourites, err := s.repo.CountFavourites(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count favourites")
	}
	notifications, err := s.repo.CountNotifications(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}

	return &models.EnterpriseSummary{
		EnterpriseSchoolID: enterpriseSchoolID,
		MemberCount:        len(members),
		FavouritesCount:    favourites,
		NotificationsCount: notifications,
	}, nil
}

// NotifyMembers fans a notification out to every member school and returns
// the number created.
func (s *EnterpriseService) NotifyMembers(ctx context.Context, enterpriseSchoolID string, req models.BatchNotifyRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	kind := req.Type
	if kind == "" {
		kind = models.NotificationSystemAlert
	}

	members, err := s.repo.ListMembers(ctx, enterpriseSchoolID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	if len(members) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.SchoolUserID)
	}
	if err := s.notifications.CreateBatch(ctx, ids, kind); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notifications")
	}
	return len(ids), nil
}

// IsMember reports group membership for route guards.
func (s *EnterpriseService) IsMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) (bool, error) {
	member, err := s.repo.IsMember(ctx, enterpriseSchoolID, schoolUserID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	return member, nil
}
