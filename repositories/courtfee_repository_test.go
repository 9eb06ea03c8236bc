package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtFeeUpsertScansReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresCourtFeeRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO court_fees").
		WithArgs(1, 10000, 3, 3334).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(2, now, now))

	fee := &models.CourtFee{PracticeID: 1, TotalFee: 10000, ParticipantCount: 3, FeePerPerson: 3334}
	require.NoError(t, repo.Upsert(context.Background(), fee))
	assert.Equal(t, 2, fee.ID)
}

func TestCourtFeeGetByPracticeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresCourtFeeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM court_fees").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "practice_id", "total_fee", "participant_count", "fee_per_person", "created_at", "updated_at"}))

	_, err = repo.GetByPractice(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCourtFeeNotFound)
}

func TestCourtFeeUserStatsMapsMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresCourtFeeRepository(db)

	mock.ExpectQuery("SELECT u.id, u.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total", "count"}))

	_, err = repo.UserStats(context.Background(), 99, 2025)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCourtFeeAllUserStats(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresCourtFeeRepository(db)

	mock.ExpectQuery("SELECT u.id, u.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total", "count"}).
			AddRow(1, "Aoki", 12000, 10).
			AddRow(2, "Baba", 8000, 6))

	stats, err := repo.AllUserStats(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Aoki", stats[0].Name)
	assert.Equal(t, 12000, stats[0].TotalPaid)
	assert.Equal(t, 6, stats[1].PracticeCount)
}
