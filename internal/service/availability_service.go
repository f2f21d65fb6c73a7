package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/relieftech/marketplace-api/internal/models"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
)

type availabilityRepository interface {
	ListWeekly(ctx context.Context, teacherUserID string) ([]models.WeeklyAvailability, error)
	FindWeekly(ctx context.Context, teacherUserID string, dayOfWeek int) (*models.WeeklyAvailability, error)
	FindCalendarEntry(ctx context.Context, teacherUserID string, date time.Time) (*models.CalendarEntry, error)
	ListCalendarRange(ctx context.Context, teacherUserID string, from, to time.Time) ([]models.CalendarEntry, error)
	UpsertCalendarEntries(ctx context.Context, teacherUserID string, entries []models.CalendarEntry) error
}

// AvailabilityService resolves effective availability and manages the
// date-specific calendar.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService instance.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// EffectiveAvailability resolves availability for one teacher on one date:
// a calendar override for that exact date wins outright, otherwise the
// weekly row for that weekday applies, otherwise the teacher is unavailable.
func (s *AvailabilityService) EffectiveAvailability(ctx context.Context, teacherUserID string, date time.Time) (bool, error) {
	entry, err := s.repo.FindCalendarEntry(ctx, teacherUserID, models.DateOnly(date))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch calendar entry")
	}
	if entry != nil {
		return entry.IsAvailable, nil
	}

	weekly, err := s.repo.FindWeekly(ctx, teacherUserID, models.ISODayOfWeek(date))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch weekly availability")
	}
	if weekly != nil {
		return weekly.IsAvailable, nil
	}

	return false, nil
}

// ListWeekly returns the teacher's recurring weekly defaults ordered by
// weekday.
func (s *AvailabilityService) ListWeekly(ctx context.Context, teacherUserID string) ([]models.WeeklyAvailability, error) {
	rows, err := s.repo.ListWeekly(ctx, teacherUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weekly availability")
	}
	return rows, nil
}

// CalendarRange lists calendar overrides between two inclusive ISO dates.
func (s *AvailabilityService) CalendarRange(ctx context.Context, teacherUserID, fromRaw, toRaw string) ([]models.CalendarEntryView, error) {
	from, ok := models.ParseISODate(fromRaw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be a YYYY-MM-DD date")
	}
	to, ok := models.ParseISODate(toRaw)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be a YYYY-MM-DD date")
	}
	if from.After(to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}

	entries, err := s.repo.ListCalendarRange(ctx, teacherUserID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar entries")
	}

	views := make([]models.CalendarEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, e.View())
	}
	return views, nil
}

// UpsertCalendar applies a batch of date overrides as one all-or-nothing
// transaction. Concurrent writers on the same date resolve last-writer-wins.
func (s *AvailabilityService) UpsertCalendar(ctx context.Context, teacherUserID string, req models.CalendarUpsertRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}

	entries := make([]models.CalendarEntry, 0, len(req.Dates))
	for _, d := range req.Dates {
		date, ok := models.ParseISODate(d.Date)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, "dates must be YYYY-MM-DD")
		}
		entries = append(entries, models.CalendarEntry{
			TeacherUserID: teacherUserID,
			Date:          date,
			IsAvailable:   d.IsAvailable,
		})
	}

	if err := s.repo.UpsertCalendarEntries(ctx, teacherUserID, entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert calendar entries")
	}
	return nil
}
