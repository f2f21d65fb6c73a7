package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/relieftech/marketplace-api/internal/models"
)

// ErrDuplicateEmail is returned when a registration races or repeats an
// existing account email.
var ErrDuplicateEmail = fmt.Errorf("email already in use")

// UserRepository manages persistence for user accounts, teacher profiles and
// teacher locations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, role, account_status, email, phone_primary, password_hash, created_at, updated_at FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, role, account_status, email, phone_primary, password_hash, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSchool inserts a school account row.
func (r *UserRepository) CreateSchool(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.Role = models.RoleSchool
	user.AccountStatus = models.AccountActive
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, role, account_status, email, phone_primary, password_hash, created_at, updated_at)
		VALUES (:id, :role, :account_status, :email, :phone_primary, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create school user: %w", err)
	}
	return nil
}

// CreateTeacher inserts the user, profile, location and the seven weekly
// availability rows as a single transaction.
func (r *UserRepository) CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile, location *models.TeacherLocation, weekly []models.WeeklyAvailability) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.Role = models.RoleTeacher
	user.AccountStatus = models.AccountActive
	user.CreatedAt = now
	user.UpdatedAt = now
	profile.TeacherUserID = user.ID
	location.TeacherUserID = user.ID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO users (id, role, account_status, email, phone_primary, password_hash, created_at, updated_at)
		VALUES (:id, :role, :account_status, :email, :phone_primary, :password_hash, :created_at, :updated_at)`, user); err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateEmail
			return err
		}
		return fmt.Errorf("create teacher user: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO teacher_profiles (teacher_user_id, name, teaching_level, subjects_specialties, years_of_experience, qualifications, profile_picture)
		VALUES (:teacher_user_id, :name, :teaching_level, :subjects_specialties, :years_of_experience, :qualifications, :profile_picture)`, profile); err != nil {
		return fmt.Errorf("create teacher profile: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO teacher_locations (teacher_user_id, country_code, postcode, radius_km, latitude, longitude)
		VALUES (:teacher_user_id, :country_code, :postcode, :radius_km, :latitude, :longitude)`, location); err != nil {
		return fmt.Errorf("create teacher location: %w", err)
	}

	for i := range weekly {
		weekly[i].TeacherUserID = user.ID
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO teacher_weekly_availability (teacher_user_id, day_of_week, is_available)
			VALUES (:teacher_user_id, :day_of_week, :is_available)
			ON CONFLICT (teacher_user_id, day_of_week) DO UPDATE SET is_available = EXCLUDED.is_available`, &weekly[i]); err != nil {
			return fmt.Errorf("upsert weekly availability: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher registration: %w", err)
	}
	return nil
}

// FindProfile fetches a teacher's profile row.
func (r *UserRepository) FindProfile(ctx context.Context, teacherUserID string) (*models.TeacherProfile, error) {
	const query = `SELECT teacher_user_id, name, teaching_level, subjects_specialties, years_of_experience, qualifications, profile_picture FROM teacher_profiles WHERE teacher_user_id = $1`
	var profile models.TeacherProfile
	if err := r.db.GetContext(ctx, &profile, query, teacherUserID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindLocation fetches a teacher's location row.
func (r *UserRepository) FindLocation(ctx context.Context, teacherUserID string) (*models.TeacherLocation, error) {
	const query = `SELECT teacher_user_id, country_code, postcode, radius_km, latitude, longitude FROM teacher_locations WHERE teacher_user_id = $1`
	var location models.TeacherLocation
	if err := r.db.GetContext(ctx, &location, query, teacherUserID); err != nil {
		return nil, err
	}
	return &location, nil
}

// FindActiveTeacher fetches a user constrained to role=teacher and
// account_status=active. Callers must treat sql.ErrNoRows the same as a
// failed discoverability check.
func (r *UserRepository) FindActiveTeacher(ctx context.Context, teacherUserID string) (*models.User, error) {
	const query = `SELECT id, role, account_status, email, phone_primary, password_hash, created_at, updated_at
		FROM users WHERE id = $1 AND role = 'teacher' AND account_status = 'active'`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, teacherUserID); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
