package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftech/marketplace-api/internal/models"
)

func TestAvailabilityRepositoryFindWeeklyNoRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_user_id, day_of_week, is_available FROM teacher_weekly_availability WHERE teacher_user_id = $1 AND day_of_week = $2")).
		WithArgs("t1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_user_id", "day_of_week", "is_available"}))

	row, err := repo.FindWeekly(context.Background(), "t1", 3)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryFindCalendarEntry(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	date, _ := models.ParseISODate("2026-03-02")
	mock.ExpectQuery(`FROM teacher_availability_calendar WHERE teacher_user_id = \$1 AND date = \$2`).
		WithArgs("t1", date).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_user_id", "date", "is_available"}).AddRow("t1", date, false))

	row, err := repo.FindCalendarEntry(context.Background(), "t1", date)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.False(t, row.IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpsertCalendarEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	d1, _ := models.ParseISODate("2026-03-02")
	d2, _ := models.ParseISODate("2026-03-03")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_availability_calendar").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_availability_calendar").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpsertCalendarEntries(context.Background(), "t1", []models.CalendarEntry{
		{Date: d1, IsAvailable: false},
		{Date: d2, IsAvailable: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpsertCalendarEntriesRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	d1, _ := models.ParseISODate("2026-03-02")
	d2, _ := models.ParseISODate("2026-03-03")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_availability_calendar").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_availability_calendar").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.UpsertCalendarEntries(context.Background(), "t1", []models.CalendarEntry{
		{Date: d1, IsAvailable: false},
		{Date: d2, IsAvailable: true},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListCalendarRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	from, _ := models.ParseISODate("2026-03-01")
	to, _ := models.ParseISODate("2026-03-31")
	mid := from.Add(24 * time.Hour)

	mock.ExpectQuery(`date >= \$2 AND date <= \$3 ORDER BY date ASC`).
		WithArgs("t1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_user_id", "date", "is_available"}).AddRow("t1", mid, true))

	rows, err := repo.ListCalendarRange(context.Background(), "t1", from, to)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
