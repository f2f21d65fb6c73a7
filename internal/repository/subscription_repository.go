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

// SubscriptionRepository manages subscription history rows, the boost flags
// table and school subscriptions.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs a SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription row.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.Tier == "" {
		sub.Tier = models.TierBasic
	}
	const query = `INSERT INTO teacher_subscriptions (id, teacher_user_id, tier, country_code, currency_code, current_period_end_at, grace_period_end_at, override_visible_until, created_at)
		VALUES (:id, :teacher_user_id, :tier, :country_code, :currency_code, :current_period_end_at, :grace_period_end_at, :override_visible_until, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// HasValidAt reports whether any subscription row grants visibility at the
// given instant: grace period still running, or a manual override in force.
// Both boundaries are inclusive.
func (r *SubscriptionRepository) HasValidAt(ctx context.Context, teacherUserID string, now time.Time) (bool, error) {
	const query = `SELECT 1 FROM teacher_subscriptions
		WHERE teacher_user_id = $1
		  AND (grace_period_end_at >= $2 OR (override_visible_until IS NOT NULL AND override_visible_until >= $2))
		LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, teacherUserID, now); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subscription validity: %w", err)
	}
	return true, nil
}

// FindLatest returns the most recent subscription row by period end, used for
// tier/period reporting. Validity is never derived from this row alone.
func (r *SubscriptionRepository) FindLatest(ctx context.Context, teacherUserID string) (*models.Subscription, error) {
	const query = `SELECT id, teacher_user_id, tier, country_code, currency_code, current_period_end_at, grace_period_end_at, override_visible_until, created_at
		FROM teacher_subscriptions WHERE teacher_user_id = $1 ORDER BY current_period_end_at DESC LIMIT 1`
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, teacherUserID); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountRows returns how many subscription rows a teacher has, valid or not.
// Boost activation only requires that some row exists.
func (r *SubscriptionRepository) CountRows(ctx context.Context, teacherUserID string) (int, error) {
	const query = `SELECT COUNT(*) FROM teacher_subscriptions WHERE teacher_user_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherUserID); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}

// FindFlags fetches the boost flags row, returning (nil, nil) when absent.
func (r *SubscriptionRepository) FindFlags(ctx context.Context, teacherUserID string) (*models.SubscriptionFlags, error) {
	const query = `SELECT teacher_user_id, boost_active_until FROM teacher_subscription_flags WHERE teacher_user_id = $1`
	var flags models.SubscriptionFlags
	if err := r.db.GetContext(ctx, &flags, query, teacherUserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscription flags: %w", err)
	}
	return &flags, nil
}

// UpsertBoost sets the boost expiry, creating the flags row when needed.
func (r *SubscriptionRepository) UpsertBoost(ctx context.Context, teacherUserID string, activeUntil time.Time) error {
	const query = `INSERT INTO teacher_subscription_flags (teacher_user_id, boost_active_until)
		VALUES ($1, $2)
		ON CONFLICT (teacher_user_id) DO UPDATE SET boost_active_until = EXCLUDED.boost_active_until`
	if _, err := r.db.ExecContext(ctx, query, teacherUserID, activeUntil); err != nil {
		return fmt.Errorf("upsert boost flag: %w", err)
	}
	return nil
}

// FindLatestSchool returns the most recent school subscription row.
func (r *SubscriptionRepository) FindLatestSchool(ctx context.Context, schoolUserID string) (*models.SchoolSubscription, error) {
	const query = `SELECT id, school_user_id, tier, country_code, currency_code, current_period_end_at, grace_period_end_at, created_at
		FROM school_subscriptions WHERE school_user_id = $1 ORDER BY current_period_end_at DESC LIMIT 1`
	var sub models.SchoolSubscription
	if err := r.db.GetContext(ctx, &sub, query, schoolUserID); err != nil {
		return nil, err
	}
	return &sub, nil
}
