package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/relieftech/marketplace-api/internal/models"
)

// AvailabilityRepository manages weekly defaults and date-specific calendar
// overrides.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListWeekly returns a teacher's weekly rows ordered by day of week.
func (r *AvailabilityRepository) ListWeekly(ctx context.Context, teacherUserID string) ([]models.WeeklyAvailability, error) {
	const query = `SELECT teacher_user_id, day_of_week, is_available FROM teacher_weekly_availability WHERE teacher_user_id = $1 ORDER BY day_of_week ASC`
	var rows []models.WeeklyAvailability
	if err := r.db.SelectContext(ctx, &rows, query, teacherUserID); err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}
	return rows, nil
}

// FindWeekly fetches the weekly row for one day, returning (nil, nil) when no
// row exists. A missing row means unavailable, not an error.
func (r *AvailabilityRepository) FindWeekly(ctx context.Context, teacherUserID string, dayOfWeek int) (*models.WeeklyAvailability, error) {
	const query = `SELECT teacher_user_id, day_of_week, is_available FROM teacher_weekly_availability WHERE teacher_user_id = $1 AND day_of_week = $2`
	var row models.WeeklyAvailability
	if err := r.db.GetContext(ctx, &row, query, teacherUserID, dayOfWeek); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find weekly availability: %w", err)
	}
	return &row, nil
}

// FindCalendarEntry fetches the override for one exact date, returning
// (nil, nil) when the teacher has not overridden that date.
func (r *AvailabilityRepository) FindCalendarEntry(ctx context.Context, teacherUserID string, date time.Time) (*models.CalendarEntry, error) {
	const query = `SELECT teacher_user_id, date, is_available FROM teacher_availability_calendar WHERE teacher_user_id = $1 AND date = $2`
	var row models.CalendarEntry
	if err := r.db.GetContext(ctx, &row, query, teacherUserID, models.DateOnly(date)); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find calendar entry: %w", err)
	}
	return &row, nil
}

// ListCalendarRange returns overrides within [from, to] inclusive.
func (r *AvailabilityRepository) ListCalendarRange(ctx context.Context, teacherUserID string, from, to time.Time) ([]models.CalendarEntry, error) {
	const query = `SELECT teacher_user_id, date, is_available FROM teacher_availability_calendar
		WHERE teacher_user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var rows []models.CalendarEntry
	if err := r.db.SelectContext(ctx, &rows, query, teacherUserID, models.DateOnly(from), models.DateOnly(to)); err != nil {
		return nil, fmt.Errorf("list calendar range: %w", err)
	}
	return rows, nil
}

// UpsertCalendarEntries applies a batch of date overrides atomically. Each
// date is a total overwrite (last writer wins); a failure rolls back the
// entire batch.
func (r *AvailabilityRepository) UpsertCalendarEntries(ctx context.Context, teacherUserID string, entries []models.CalendarEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin calendar upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range entries {
		entries[i].TeacherUserID = teacherUserID
		entries[i].Date = models.DateOnly(entries[i].Date)
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO teacher_availability_calendar (teacher_user_id, date, is_available)
			VALUES (:teacher_user_id, :date, :is_available)
			ON CONFLICT (teacher_user_id, date) DO UPDATE SET is_available = EXCLUDED.is_available`, &entries[i]); err != nil {
			return fmt.Errorf("upsert calendar entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit calendar upsert: %w", err)
	}
	return nil
}
