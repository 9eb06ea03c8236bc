package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourtFeeRepo struct {
	repositories.CourtFeeRepository

	stored   *models.CourtFee
	allStats []*models.UserFeeStats
}

func (f *fakeCourtFeeRepo) Upsert(_ context.Context, fee *models.CourtFee) error {
	fee.ID = 1
	f.stored = fee
	return nil
}

func (f *fakeCourtFeeRepo) GetByPractice(_ context.Context, practiceID int) (*models.CourtFee, error) {
	if f.stored == nil || f.stored.PracticeID != practiceID {
		return nil, repositories.ErrCourtFeeNotFound
	}
	return f.stored, nil
}

func (f *fakeCourtFeeRepo) AllUserStats(_ context.Context, year int) ([]*models.UserFeeStats, error) {
	return f.allStats, nil
}

type fakeSettingRepo struct {
	repositories.SettingRepository

	values map[string]string
}

func (f *fakeSettingRepo) GetByKey(_ context.Context, key string) (*models.Setting, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, repositories.ErrSettingNotFound
	}
	return &models.Setting{Key: key, Value: v}, nil
}

func newCourtFeeServiceForTest(fees *fakeCourtFeeRepo, participantCount int, settings *fakeSettingRepo) *CourtFeeService {
	practice := newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour))
	if settings == nil {
		settings = &fakeSettingRepo{}
	}
	return NewCourtFeeService(
		fees,
		&fakeParticipationRepo{currentCount: participantCount},
		&fakePracticeRepo{practices: map[int]*models.Practice{practice.ID: practice}},
		settings,
	)
}

func TestSplitFee(t *testing.T) {
	tests := []struct {
		total, count, want int
	}{
		{8000, 8, 1000},
		{10000, 3, 3334},
		{1, 2, 1},
		{0, 5, 0},
		{100, 1, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitFee(tt.total, tt.count), "splitFee(%d, %d)", tt.total, tt.count)
	}
}

func TestRecordSplitsAmongParticipants(t *testing.T) {
	fees := &fakeCourtFeeRepo{}
	svc := newCourtFeeServiceForTest(fees, 3, nil)

	fee, err := svc.Record(context.Background(), 1, 10000)
	require.NoError(t, err)
	assert.Equal(t, 10000, fee.TotalFee)
	assert.Equal(t, 3, fee.ParticipantCount)
	assert.Equal(t, 3334, fee.FeePerPerson)
	require.NotNil(t, fees.stored)
}

func TestRecordRejectsNegativeFee(t *testing.T) {
	svc := newCourtFeeServiceForTest(&fakeCourtFeeRepo{}, 3, nil)

	_, err := svc.Record(context.Background(), 1, -1)
	assert.ErrorIs(t, err, ErrNegativeFee)
}

func TestRecordRejectsWithoutParticipants(t *testing.T) {
	svc := newCourtFeeServiceForTest(&fakeCourtFeeRepo{}, 0, nil)

	_, err := svc.Record(context.Background(), 1, 8000)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestRecordUnknownPractice(t *testing.T) {
	svc := newCourtFeeServiceForTest(&fakeCourtFeeRepo{}, 3, nil)

	_, err := svc.Record(context.Background(), 99, 8000)
	assert.ErrorIs(t, err, ErrPracticeNotFound)
}

func TestRecordReplacesPreviousSplit(t *testing.T) {
	fees := &fakeCourtFeeRepo{}
	svc := newCourtFeeServiceForTest(fees, 4, nil)

	_, err := svc.Record(context.Background(), 1, 8000)
	require.NoError(t, err)

	fee, err := svc.Record(context.Background(), 1, 6000)
	require.NoError(t, err)
	assert.Equal(t, 1500, fee.FeePerPerson)
	assert.Equal(t, 6000, fees.stored.TotalFee)
}

func TestAllStatsComparesAgainstAnnualFee(t *testing.T) {
	fees := &fakeCourtFeeRepo{allStats: []*models.UserFeeStats{
		{UserID: 1, Name: "Aoki", TotalPaid: 12000, PracticeCount: 10},
		{UserID: 2, Name: "Baba", TotalPaid: 30000, PracticeCount: 25},
	}}
	settings := &fakeSettingRepo{values: map[string]string{
		models.SettingAnnualFee: "24000",
	}}
	svc := newCourtFeeServiceForTest(fees, 3, settings)

	balances, err := svc.AllStats(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, 24000, balances[0].AnnualFee)
	assert.Equal(t, 12000, balances[0].Difference)
	assert.Equal(t, -6000, balances[1].Difference)
}

func TestAllStatsToleratesMissingAnnualFee(t *testing.T) {
	fees := &fakeCourtFeeRepo{allStats: []*models.UserFeeStats{
		{UserID: 1, Name: "Aoki", TotalPaid: 5000, PracticeCount: 4},
	}}
	svc := newCourtFeeServiceForTest(fees, 3, nil)

	balances, err := svc.AllStats(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 0, balances[0].AnnualFee)
	assert.Equal(t, -5000, balances[0].Difference)
}
