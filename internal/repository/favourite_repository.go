package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// FavouriteRepository manages school→teacher favourite relations.
type FavouriteRepository struct {
	db *sqlx.DB
}

// NewFavouriteRepository constructs a FavouriteRepository.
func NewFavouriteRepository(db *sqlx.DB) *FavouriteRepository {
	return &FavouriteRepository{db: db}
}

// Upsert records a favourite; repeating an existing pair is a no-op.
func (r *FavouriteRepository) Upsert(ctx context.Context, schoolUserID, teacherUserID string) error {
	const query = `INSERT INTO school_favourites (school_user_id, teacher_user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (school_user_id, teacher_user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, schoolUserID, teacherUserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert favourite: %w", err)
	}
	return nil
}

// Delete removes a favourite. Removal is always allowed; deleting a
// non-existent pair is not an error.
func (r *FavouriteRepository) Delete(ctx context.Context, schoolUserID, teacherUserID string) error {
	const query = `DELETE FROM school_favourites WHERE school_user_id = $1 AND teacher_user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, schoolUserID, teacherUserID); err != nil {
		return fmt.Errorf("delete favourite: %w", err)
	}
	return nil
}

// ListTeacherIDs returns the saved teacher IDs for a school, newest first.
// Discoverability re-filtering happens in the service layer so the stored
// relations stay untouched.
func (r *FavouriteRepository) ListTeacherIDs(ctx context.Context, schoolUserID string) ([]string, error) {
	const query = `SELECT teacher_user_id FROM school_favourites WHERE school_user_id = $1 ORDER BY created_at DESC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, schoolUserID); err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	return ids, nil
}
