package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// EnterpriseRepository manages enterprise school groups and their members.
type EnterpriseRepository struct {
	db *sqlx.DB
}

// NewEnterpriseRepository constructs an EnterpriseRepository.
func NewEnterpriseRepository(db *sqlx.DB) *EnterpriseRepository {
	return &EnterpriseRepository{db: db}
}

// Create inserts an enterprise school group.
func (r *EnterpriseRepository) Create(ctx context.Context, es *models.EnterpriseSchool) error {
	if es.ID == "" {
		es.ID = uuid.NewString()
	}
	if es.CreatedAt.IsZero() {
		es.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enterprise_schools (id, name, billing_email, created_at)
		VALUES (:id, :name, :billing_email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, es); err != nil {
		return fmt.Errorf("create enterprise school: %w", err)
	}
	return nil
}

// FindByID fetches an enterprise school group.
func (r *EnterpriseRepository) FindByID(ctx context.Context, id string) (*models.EnterpriseSchool, error) {
	const query = `SELECT id, name, billing_email, created_at FROM enterprise_schools WHERE id = $1`
	var es models.EnterpriseSchool
	if err := r.db.GetContext(ctx, &es, query, id); err != nil {
		return nil, err
	}
	return &es, nil
}

// ListMembers returns the group's members.
func (r *EnterpriseRepository) ListMembers(ctx context.Context, enterpriseSchoolID string) ([]models.EnterpriseMember, error) {
	const query = `SELECT enterprise_school_id, school_user_id, member_role
		FROM enterprise_school_members WHERE enterprise_school_id = $1 ORDER BY school_user_id ASC`
	var rows []models.EnterpriseMember
	if err := r.db.SelectContext(ctx, &rows, query, enterpriseSchoolID); err != nil {
		return nil, fmt.Errorf("list enterprise members: %w", err)
	}
	return rows, nil
}

// IsMember reports whether the school user belongs to the group.
func (r *EnterpriseRepository) IsMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM enterprise_school_members WHERE enterprise_school_id = $1 AND school_user_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, enterpriseSchoolID, schoolUserID); err != nil {
		return false, fmt.Errorf("check enterprise membership: %w", err)
	}
	return count > 0, nil
}

// UpsertMember adds or updates a member role within the group.
func (r *EnterpriseRepository) UpsertMember(ctx context.Context, m *models.EnterpriseMember) error {
	const query = `INSERT INTO enterprise_school_members (enterprise_school_id, school_user_id, member_role)
		VALUES (:enterprise_school_id, :school_user_id, :member_role)
		ON CONFLICT (enterprise_school_id, school_user_id) DO UPDATE SET member_role = EXCLUDED.member_role`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("upsert enterprise member: %w", err)
	}
	return nil
}

// CountFavourites totals the saved teachers across a set of member schools.
func (r *EnterpriseRepository) CountFavourites(ctx context.Context, schoolUserIDs []string) (int, error) {
	if len(schoolUserIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM school_favourites WHERE school_user_id IN (?)`, schoolUserIDs)
	if err != nil {
		return 0, fmt.Errorf("count favourites: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count favourites: %w", err)
	}
	return count, nil
}

// CountNotifications totals the notifications across a set of member schools.
func (r *EnterpriseRepository) CountNotifications(ctx context.Context, schoolUserIDs []string) (int, error) {
	if len(schoolUserIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM notifications WHERE user_id IN (?)`, schoolUserIDs)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// DeleteMember removes a member from the group.
func (r *EnterpriseRepository) DeleteMember(ctx context.Context, enterpriseSchoolID, schoolUserID string) error {
	const query = `DELETE FROM enterprise_school_members WHERE enterprise_school_id = $1 AND school_user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, enterpriseSchoolID, schoolUserID); err != nil {
		return fmt.Errorf("delete enterprise member: %w", err)
	}
	return nil
}
