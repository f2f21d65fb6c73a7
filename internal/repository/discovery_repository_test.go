package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func discoveryColumns() []string {
	return []string{"teacher_user_id", "name", "profile_picture", "teaching_level", "country_code", "postcode", "radius_km", "latitude", "longitude", "boost_active_until", "tier"}
}

func TestDiscoveryRepositoryListDiscoverable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscoveryRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(discoveryColumns()).
		AddRow("t1", "Alice Wong", "pic.jpg", "primary", "AU", "2000", 25, nil, nil, nil, "basic").
		AddRow("t2", "Bob Chen", "pic2.jpg", "secondary", "AU", "3000", 10, nil, nil, now.Add(time.Hour), "pro")

	mock.ExpectQuery(`SELECT u\.id AS teacher_user_id`).
		WithArgs(now, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	out, err := repo.ListDiscoverable(context.Background(), now, now, "", nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].TeacherUserID)
	require.NotNil(t, out[1].Tier)
	assert.Equal(t, "pro", *out[1].Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoveryRepositoryListDiscoverableCountryArg(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscoveryRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`AND l\.country_code = \$4`).
		WithArgs(now, sqlmock.AnyArg(), sqlmock.AnyArg(), "AU").
		WillReturnRows(sqlmock.NewRows(discoveryColumns()))

	out, err := repo.ListDiscoverable(context.Background(), now, now, "AU", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoveryRepositoryListDiscoverableTeacherIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscoveryRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(discoveryColumns()).
		AddRow("t2", "Bob Chen", "pic2.jpg", "secondary", "AU", "3000", 10, nil, nil, nil, "basic")

	mock.ExpectQuery(`AND u\.id IN \(\$4, \$5\)`).
		WithArgs(now, sqlmock.AnyArg(), sqlmock.AnyArg(), "t2", "t9").
		WillReturnRows(rows)

	out, err := repo.ListDiscoverable(context.Background(), now, now, "", []string{"t2", "t9"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].TeacherUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoveryRepositoryFindCandidate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscoveryRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"teacher_user_id", "has_profile", "country_code", "calendar_value", "weekly_value", "has_valid_sub"}).
		AddRow("t1", true, "AU", nil, true, true)

	mock.ExpectQuery(`AS has_valid_sub`).
		WithArgs("t1", sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnRows(rows)

	row, err := repo.FindCandidate(context.Background(), "t1", now, now)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.HasProfile)
	assert.Nil(t, row.CalendarValue)
	require.NotNil(t, row.WeeklyValue)
	assert.True(t, *row.WeeklyValue)
	assert.True(t, row.HasValidSub)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoveryRepositoryFindCandidateNoRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscoveryRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`AS has_valid_sub`).
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_user_id"}))

	row, err := repo.FindCandidate(context.Background(), "missing", now, now)
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}
