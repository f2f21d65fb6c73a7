package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type subscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	HasValidAt(ctx context.Context, teacherUserID string, now time.Time) (bool, error)
	FindLatest(ctx context.Context, teacherUserID string) (*models.Subscription, error)
	CountRows(ctx context.Context, teacherUserID string) (int, error)
	FindFlags(ctx context.Context, teacherUserID string) (*models.SubscriptionFlags, error)
	UpsertBoost(ctx context.Context, teacherUserID string, activeUntil time.Time) error
	FindLatestSchool(ctx context.Context, schoolUserID string) (*models.SchoolSubscription, error)
}

type subscriptionAvailability interface {
	EffectiveAvailability(ctx context.Context, teacherUserID string, date time.Time) (bool, error)
}

// BillingConfig carries the stub billing knobs.
type BillingConfig struct {
	PeriodDays    int
	GraceDays     int
	BoostDuration time.Duration
}

// SubscriptionService manages subscription rows, validity checks and the
// boost flag.
type SubscriptionService struct {
	repo         subscriptionRepository
	availability subscriptionAvailability
	logger       *zap.Logger
	config       BillingConfig
}

// NewSubscriptionService constructs a SubscriptionService instance.
func NewSubscriptionService(repo subscriptionRepository, availability subscriptionAvailability, logger *zap.Logger, config BillingConfig) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, availability: availability, logger: logger, config: config}
}

// IsValid reports whether any subscription row grants visibility at the
// given instant. Both the grace and override boundaries are inclusive.
func (s *SubscriptionService) IsValid(ctx context.Context, teacherUserID string, now time.Time) (bool, error) {
	valid, err := s.repo.HasValidAt(ctx, teacherUserID, now)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscription validity")
	}
	return valid, nil
}

// Subscribe creates a new subscription row for the stub billing period and
// returns it with today's discoverability snapshot. Payments are out of
// scope; every call succeeds and extends visibility.
func (s *SubscriptionService) Subscribe(ctx context.Context, teacherUserID string) (*models.SubscriptionSnapshot, error) {
	now := time.Now().UTC()
	sub := &models.Subscription{
		ID:                 uuid.NewString(),
		TeacherUserID:      teacherUserID,
		Tier:               models.TierBasic,
		CurrentPeriodEndAt: now.AddDate(0, 0, s.config.PeriodDays),
		GracePeriodEndAt:   now.AddDate(0, 0, s.config.PeriodDays+s.config.GraceDays),
		CreatedAt:          now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription")
	}
	return s.snapshot(ctx, teacherUserID, sub, now)
}

// GetOwn returns the teacher's most recent subscription row with today's
// discoverability snapshot.
func (s *SubscriptionService) GetOwn(ctx context.Context, teacherUserID string) (*models.SubscriptionSnapshot, error) {
	sub, err := s.repo.FindLatest(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no subscription found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subscription")
	}
	return s.snapshot(ctx, teacherUserID, sub, time.Now().UTC())
}

func (s *SubscriptionService) snapshot(ctx context.Context, teacherUserID string, sub *models.Subscription, now time.Time) (*models.SubscriptionSnapshot, error) {
	availableToday, err := s.availability.EffectiveAvailability(ctx, teacherUserID, now)
	if err != nil {
		return nil, err
	}
	valid, err := s.repo.HasValidAt(ctx, teacherUserID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subscription validity")
	}
	return &models.SubscriptionSnapshot{
		Subscription:        *sub,
		IsAvailableToday:    availableToday,
		IsDiscoverableToday: valid && availableToday,
	}, nil
}

// BoostStatus reports whether the teacher's boost flag is live right now.
func (s *SubscriptionService) BoostStatus(ctx context.Context, teacherUserID string) (*models.BoostStatus, error) {
	flags, err := s.repo.FindFlags(ctx, teacherUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch boost flags")
	}
	status := &models.BoostStatus{}
	if flags != nil {
		status.ActiveUntil = flags.BoostActiveUntil
		status.Enabled = flags.BoostActiveAt(time.Now().UTC())
	}
	return status, nil
}

// ActivateBoost sets the boost flag for the configured duration. It requires
// at least one subscription row to exist, but deliberately not a currently
// valid one: a teacher with a lapsed subscription may activate a boost that
// has no visible effect until they resubscribe. Boost affects ranking only,
// never discoverability.
func (s *SubscriptionService) ActivateBoost(ctx context.Context, teacherUserID string) (*models.BoostStatus, error) {
	count, err := s.repo.CountRows(ctx, teacherUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subscriptions")
	}
	if count == 0 {
		return nil, appErrors.Clone(appErrors.ErrSubscriptionNeeded, "a subscription is required to activate boost")
	}

	until := time.Now().UTC().Add(s.config.BoostDuration)
	if err := s.repo.UpsertBoost(ctx, teacherUserID, until); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate boost")
	}
	return &models.BoostStatus{Enabled: true, ActiveUntil: &until}, nil
}

// TeacherTier returns the most recent teacher subscription row, which
// carries the tier standing used by phase-3 clients.
func (s *SubscriptionService) TeacherTier(ctx context.Context, teacherUserID string) (*models.Subscription, error) {
	sub, err := s.repo.FindLatest(ctx, teacherUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no subscription found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subscription")
	}
	return sub, nil
}

// SchoolTier returns the most recent school subscription row.
func (s *SubscriptionService) SchoolTier(ctx context.Context, schoolUserID string) (*models.SchoolSubscription, error) {
	sub, err := s.repo.FindLatestSchool(ctx, schoolUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no subscription found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subscription")
	}
	return sub, nil
}
