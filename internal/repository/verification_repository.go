package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// VerificationRepository manages credential verification records.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository constructs a VerificationRepository.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create inserts a submitted verification.
func (r *VerificationRepository) Create(ctx context.Context, v *models.CredentialVerification) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = time.Now().UTC()
	}
	if v.Status == "" {
		v.Status = models.VerificationSubmitted
	}
	const query = `INSERT INTO credential_verifications (id, teacher_user_id, type, status, notes, submitted_at, decided_at)
		VALUES (:id, :teacher_user_id, :type, :status, :notes, :submitted_at, :decided_at)`
	if _, err := r.db.NamedExecContext(ctx, query, v); err != nil {
		return fmt.Errorf("create verification: %w", err)
	}
	return nil
}

// FindByID fetches one verification.
func (r *VerificationRepository) FindByID(ctx context.Context, id string) (*models.CredentialVerification, error) {
	const query = `SELECT id, teacher_user_id, type, status, notes, submitted_at, decided_at FROM credential_verifications WHERE id = $1`
	var v models.CredentialVerification
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByTeacher returns a teacher's verifications, newest first.
func (r *VerificationRepository) ListByTeacher(ctx context.Context, teacherUserID string) ([]models.CredentialVerification, error) {
	const query = `SELECT id, teacher_user_id, type, status, notes, submitted_at, decided_at
		FROM credential_verifications WHERE teacher_user_id = $1 ORDER BY submitted_at DESC`
	var rows []models.CredentialVerification
	if err := r.db.SelectContext(ctx, &rows, query, teacherUserID); err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	return rows, nil
}

// Decide records an admin decision.
func (r *VerificationRepository) Decide(ctx context.Context, id, status string, notes *string, decidedAt time.Time) error {
	const query = `UPDATE credential_verifications SET status = $2, notes = COALESCE($3, notes), decided_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, notes, decidedAt); err != nil {
		return fmt.Errorf("decide verification: %w", err)
	}
	return nil
}
