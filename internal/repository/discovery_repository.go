package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// DiscoveryRepository backs the discoverability predicate and the bulk
// listing with set-oriented queries. Both share the same availability rule:
// the calendar override for the exact date wins when present, otherwise the
// weekly default applies, otherwise the teacher is unavailable.
type DiscoveryRepository struct {
	db *sqlx.DB
}

// NewDiscoveryRepository constructs a DiscoveryRepository.
func NewDiscoveryRepository(db *sqlx.DB) *DiscoveryRepository {
	return &DiscoveryRepository{db: db}
}

const subscriptionValidCond = `EXISTS (
		SELECT 1 FROM teacher_subscriptions ts
		WHERE ts.teacher_user_id = u.id
		  AND (ts.grace_period_end_at >= %[1]s
		       OR (ts.override_visible_until IS NOT NULL AND ts.override_visible_until >= %[1]s))
	)`

// ListDiscoverable returns every teacher passing the discoverability rules
// for the given date in one query. The result set must match the
// single-entity predicate exactly; the COALESCE mirrors the calendar-first
// resolution used there. A non-empty teacherIDs restricts the set to those
// teachers, so callers holding a fixed id set (favourites) get the same
// membership the per-teacher predicate would give. No LIMIT is applied
// here: any result cap belongs after ranking, not in id order.
func (r *DiscoveryRepository) ListDiscoverable(ctx context.Context, date time.Time, now time.Time, countryCode string, teacherIDs []string) ([]models.DiscoveryRow, error) {
	dateOnly := models.DateOnly(date)
	dayOfWeek := models.ISODayOfWeek(dateOnly)

	query := `SELECT u.id AS teacher_user_id,
		p.name, p.profile_picture, p.teaching_level,
		l.country_code, l.postcode, l.radius_km, l.latitude, l.longitude,
		f.boost_active_until,
		latest.tier
	FROM users u
	JOIN teacher_profiles p ON p.teacher_user_id = u.id
	JOIN teacher_locations l ON l.teacher_user_id = u.id
	LEFT JOIN teacher_subscription_flags f ON f.teacher_user_id = u.id
	LEFT JOIN LATERAL (
		SELECT ts.tier FROM teacher_subscriptions ts
		WHERE ts.teacher_user_id = u.id
		ORDER BY ts.current_period_end_at DESC
		LIMIT 1
	) latest ON TRUE
	WHERE u.role = 'teacher'
	  AND u.account_status = 'active'
	  AND ` + fmt.Sprintf(subscriptionValidCond, "$1") + `
	  AND COALESCE(
		(SELECT c.is_available FROM teacher_availability_calendar c
		 WHERE c.teacher_user_id = u.id AND c.date = $2),
		(SELECT w.is_available FROM teacher_weekly_availability w
		 WHERE w.teacher_user_id = u.id AND w.day_of_week = $3),
		FALSE)`

	args := []interface{}{now, dateOnly, dayOfWeek}
	if countryCode != "" {
		query += fmt.Sprintf(" AND l.country_code = $%d", len(args)+1)
		args = append(args, countryCode)
	}
	if len(teacherIDs) > 0 {
		placeholders := make([]string, len(teacherIDs))
		for i, id := range teacherIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND u.id IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY u.id ASC"

	var rows []models.DiscoveryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list discoverable teachers: %w", err)
	}
	return rows, nil
}

// FindCandidate fetches the raw predicate inputs for one teacher. It returns
// (nil, nil) when no active teacher row exists; callers fold that into the
// same "not discoverable" outcome.
func (r *DiscoveryRepository) FindCandidate(ctx context.Context, teacherUserID string, date time.Time, now time.Time) (*models.CandidateRow, error) {
	dateOnly := models.DateOnly(date)
	dayOfWeek := models.ISODayOfWeek(dateOnly)

	query := `SELECT u.id AS teacher_user_id,
		EXISTS (SELECT 1 FROM teacher_profiles p WHERE p.teacher_user_id = u.id) AS has_profile,
		(SELECT l.country_code FROM teacher_locations l WHERE l.teacher_user_id = u.id) AS country_code,
		(SELECT c.is_available FROM teacher_availability_calendar c
		 WHERE c.teacher_user_id = u.id AND c.date = $2) AS calendar_value,
		(SELECT w.is_available FROM teacher_weekly_availability w
		 WHERE w.teacher_user_id = u.id AND w.day_of_week = $3) AS weekly_value,
		` + fmt.Sprintf(subscriptionValidCond, "$4") + ` AS has_valid_sub
	FROM users u
	WHERE u.id = $1 AND u.role = 'teacher' AND u.account_status = 'active'`

	var row models.CandidateRow
	if err := r.db.GetContext(ctx, &row, query, teacherUserID, dateOnly, dayOfWeek, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find discovery candidate: %w", err)
	}
	return &row, nil
}
