package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBallBagRepo struct {
	repositories.BallBagRepository

	bags    []*models.BallBag
	holders map[int]int // bagID -> userID
}

func (f *fakeBallBagRepo) GetByID(_ context.Context, id int) (*models.BallBag, error) {
	for _, b := range f.bags {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repositories.ErrBallBagNotFound
}

func (f *fakeBallBagRepo) ListFirstN(_ context.Context, n int) ([]*models.BallBag, error) {
	if n > len(f.bags) {
		n = len(f.bags)
	}
	return f.bags[:n], nil
}

func (f *fakeBallBagRepo) UpdateHolder(_ context.Context, _ repositories.SQLExecutor, bagID, userID int) error {
	if f.holders == nil {
		f.holders = make(map[int]int)
	}
	f.holders[bagID] = userID
	return nil
}

type fakeBallBagHistoryRepo struct {
	repositories.BallBagHistoryRepository

	candidates []*models.BallBagCandidate
	created    []*models.BallBagHistory
}

func (f *fakeBallBagHistoryRepo) ListCandidates(_ context.Context, practiceID int) ([]*models.BallBagCandidate, error) {
	return f.candidates, nil
}

func (f *fakeBallBagHistoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, h *models.BallBagHistory) error {
	h.ID = len(f.created) + 1
	f.created = append(f.created, h)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func ts(day int) *time.Time {
	t := time.Date(2025, 4, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func TestRankCandidates(t *testing.T) {
	candidates := []*models.BallBagCandidate{
		{UserID: 1, Name: "Aoki", LastTakenAt: ts(3)},
		{UserID: 2, Name: "Baba", LastTakenAt: nil},
		{UserID: 3, Name: "Chiba", LastTakenAt: ts(10)},
		{UserID: 4, Name: "Doi", LastTakenAt: nil},
	}

	ranked := rankCandidates(candidates)

	// Never-carried first (name order between them), then oldest takeaway.
	require.Len(t, ranked, 4)
	assert.Equal(t, "Baba", ranked[0].Name)
	assert.Equal(t, "Doi", ranked[1].Name)
	assert.Equal(t, "Aoki", ranked[2].Name)
	assert.Equal(t, "Chiba", ranked[3].Name)
}

func TestRankCandidatesTiebreakByName(t *testing.T) {
	same := ts(5)
	candidates := []*models.BallBagCandidate{
		{UserID: 1, Name: "Zushi", LastTakenAt: same},
		{UserID: 2, Name: "Abe", LastTakenAt: same},
	}

	ranked := rankCandidates(candidates)
	assert.Equal(t, "Abe", ranked[0].Name)
	assert.Equal(t, "Zushi", ranked[1].Name)
}

func TestAutoAssignPairsBagsWithLeastRecentCarriers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	bags := &fakeBallBagRepo{bags: []*models.BallBag{
		{ID: 1, Name: "Bag 1"},
		{ID: 2, Name: "Bag 2"},
	}}
	histories := &fakeBallBagHistoryRepo{candidates: []*models.BallBagCandidate{
		{UserID: 10, Name: "Aoki", LastTakenAt: ts(8)},
		{UserID: 11, Name: "Baba", LastTakenAt: nil},
		{UserID: 12, Name: "Chiba", LastTakenAt: ts(2)},
	}}
	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}

	svc := NewBallBagService(db, bags, histories, practices, testLogger())

	assignments, err := svc.AutoAssign(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	// Two courts: Baba never carried, Chiba carried longest ago.
	assert.Equal(t, 1, assignments[0].BallBagID)
	assert.Equal(t, "Baba", assignments[0].UserName)
	assert.Equal(t, 2, assignments[1].BallBagID)
	assert.Equal(t, "Chiba", assignments[1].UserName)

	assert.Len(t, histories.created, 2)
	assert.Equal(t, 11, bags.holders[1])
	assert.Equal(t, 12, bags.holders[2])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoAssignNoCandidates(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}
	svc := NewBallBagService(db, &fakeBallBagRepo{}, &fakeBallBagHistoryRepo{}, practices, testLogger())

	_, err = svc.AutoAssign(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoAttendingCandidates)
}

func TestAutoAssignInsufficientParticipants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	histories := &fakeBallBagHistoryRepo{candidates: []*models.BallBagCandidate{
		{UserID: 10, Name: "Aoki"},
	}}
	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 3, 4, time.Now().Add(time.Hour)),
	}}
	svc := NewBallBagService(db, &fakeBallBagRepo{}, histories, practices, testLogger())

	_, err = svc.AutoAssign(context.Background(), 1)

	var insufficient *InsufficientResourceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "attending participants", insufficient.Resource)
	assert.Equal(t, 3, insufficient.Required)
	assert.Equal(t, 1, insufficient.Available)

	// Nothing written: no transaction was opened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoAssignInsufficientBags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bags := &fakeBallBagRepo{bags: []*models.BallBag{{ID: 1, Name: "Bag 1"}}}
	histories := &fakeBallBagHistoryRepo{candidates: []*models.BallBagCandidate{
		{UserID: 10, Name: "Aoki"},
		{UserID: 11, Name: "Baba"},
	}}
	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}
	svc := NewBallBagService(db, bags, histories, practices, testLogger())

	_, err = svc.AutoAssign(context.Background(), 1)

	var insufficient *InsufficientResourceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "ball bags", insufficient.Resource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTakeawayWritesHistoryAndHolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	bags := &fakeBallBagRepo{bags: []*models.BallBag{{ID: 1, Name: "Bag 1"}}}
	histories := &fakeBallBagHistoryRepo{}
	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}
	svc := NewBallBagService(db, bags, histories, practices, testLogger())

	err = svc.RecordTakeaway(context.Background(), 1, 1, 42)
	require.NoError(t, err)

	require.Len(t, histories.created, 1)
	assert.Equal(t, 42, histories.created[0].UserID)
	assert.Equal(t, 42, bags.holders[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTakeawayUnknownBag(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}
	svc := NewBallBagService(db, &fakeBallBagRepo{}, &fakeBallBagHistoryRepo{}, practices, testLogger())

	err = svc.RecordTakeaway(context.Background(), 9, 1, 42)
	assert.ErrorIs(t, err, ErrBallBagNotFound)
}
