package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftech/marketplace-api/internal/models"
)

func TestSubscriptionRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO teacher_subscriptions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Subscription{TeacherUserID: "t1", CurrentPeriodEndAt: time.Now(), GracePeriodEndAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, models.TierBasic, sub.Tier)
	assert.False(t, sub.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryHasValidAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`grace_period_end_at >= \$2 OR \(override_visible_until IS NOT NULL AND override_visible_until >= \$2\)`).
		WithArgs("t1", now).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	valid, err := repo.HasValidAt(context.Background(), "t1", now)
	require.NoError(t, err)
	assert.True(t, valid)

	mock.ExpectQuery(`grace_period_end_at >= \$2`).
		WithArgs("t2", now).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	valid, err = repo.HasValidAt(context.Background(), "t2", now)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryFindLatestNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery(`ORDER BY current_period_end_at DESC LIMIT 1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindLatest(context.Background(), "t1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryFindFlagsNoRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_user_id, boost_active_until FROM teacher_subscription_flags WHERE teacher_user_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_user_id", "boost_active_until"}))

	flags, err := repo.FindFlags(context.Background(), "t1")
	require.NoError(t, err)
	assert.Nil(t, flags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryUpsertBoost(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	until := time.Now().UTC().Add(168 * time.Hour)
	mock.ExpectExec(`ON CONFLICT \(teacher_user_id\) DO UPDATE SET boost_active_until`).
		WithArgs("t1", until).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpsertBoost(context.Background(), "t1", until))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryCountRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teacher_subscriptions WHERE teacher_user_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountRows(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
