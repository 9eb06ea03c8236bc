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

func (f *fakePracticeRepo) Create(_ context.Context, p *models.Practice) error {
	if f.practices == nil {
		f.practices = make(map[int]*models.Practice)
	}
	p.ID = len(f.practices) + 1
	f.practices[p.ID] = p
	return nil
}

func (f *fakePracticeRepo) ExistsByDateAndStartTime(_ context.Context, date time.Time, startTime string) (bool, error) {
	for _, p := range f.practices {
		if p.Date.Equal(date) && p.StartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

type fakeReservationRepo struct {
	repositories.ReservationRepository

	batches map[int][]models.ReservationAccount
}

func (f *fakeReservationRepo) CreateBatch(_ context.Context, practiceID int, accounts []models.ReservationAccount) error {
	if f.batches == nil {
		f.batches = make(map[int][]models.ReservationAccount)
	}
	f.batches[practiceID] = accounts
	return nil
}

func (f *fakeReservationRepo) ListByPractice(_ context.Context, practiceID int) ([]models.ReservationAccount, error) {
	return f.batches[practiceID], nil
}

type fakeUserMatcher struct {
	repositories.UserRepository

	byRegistrationNumber map[string]string // user number -> student id
	tokens               []string
}

func (f *fakeUserMatcher) StudentIDByRegistrationNumber(_ context.Context, regNum string) (*string, error) {
	sid, ok := f.byRegistrationNumber[regNum]
	if !ok {
		return nil, nil
	}
	return &sid, nil
}

func (f *fakeUserMatcher) ListLineNotifyTokens(_ context.Context) ([]string, error) {
	return f.tokens, nil
}

func newPracticeServiceForTest(practices *fakePracticeRepo, reservations *fakeReservationRepo, users *fakeUserMatcher) *PracticeService {
	if practices == nil {
		practices = &fakePracticeRepo{}
	}
	if reservations == nil {
		reservations = &fakeReservationRepo{}
	}
	if users == nil {
		users = &fakeUserMatcher{}
	}
	return NewPracticeService(practices, reservations, users, nil, testLogger())
}

func TestCreatePracticeDefaults(t *testing.T) {
	practices := &fakePracticeRepo{}
	svc := newPracticeServiceForTest(practices, nil, nil)

	input := CreatePracticeInput{
		Date:             time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
		StartTime:        "18:00",
		Location:         "第一体育館",
		Courts:           2,
		DeadlineDatetime: time.Date(2025, 6, 6, 23, 59, 0, 0, time.UTC),
	}

	practice, err := svc.Create(context.Background(), input, 1)
	require.NoError(t, err)
	assert.Equal(t, models.PracticeOpen, practice.Status)
	assert.Equal(t, 8, practice.CapacityPerCourt)
	assert.Equal(t, 0, practice.CourtFeePerCourt)
	assert.Equal(t, 16, practice.TotalCapacity())
	assert.Equal(t, 1, practice.CreatedBy)
}

func TestCreatePracticeRequiresFields(t *testing.T) {
	svc := newPracticeServiceForTest(nil, nil, nil)

	_, err := svc.Create(context.Background(), CreatePracticeInput{StartTime: "18:00"}, 1)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

const bookingExportFixture = `予約回数集計結果

利用日: 2025年06月07日, 時刻: 18時00分, 面数: 2
利用者氏名: 山田太郎, 利用者番号: 100234
利用者氏名: 部外者, 利用者番号: 999999

利用日: 2025年06月14日, 時刻: 9時30分, 面数: 3
`

func TestImportTextCreatesPracticesWithDefaults(t *testing.T) {
	practices := &fakePracticeRepo{}
	reservations := &fakeReservationRepo{}
	users := &fakeUserMatcher{byRegistrationNumber: map[string]string{
		"100234": "2025-1234",
	}}
	svc := newPracticeServiceForTest(practices, reservations, users)

	result, err := svc.ImportText(context.Background(), bookingExportFixture, 1)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Errors)

	first := result.Created[0]
	assert.Equal(t, "18:00", first.StartTime)
	require.NotNil(t, first.EndTime)
	assert.Equal(t, "20:00", *first.EndTime)
	assert.Equal(t, 2, first.Courts)
	assert.Equal(t, importedCapacityPerCourt, first.CapacityPerCourt)
	assert.Equal(t, importedCourtFee, first.CourtFeePerCourt)
	assert.Equal(t, models.PracticeOpen, first.Status)
	require.NotNil(t, first.Notes)
	assert.Equal(t, importedPracticeNote, *first.Notes)

	// Accounts matched by registration number where possible.
	accounts := reservations.batches[first.ID]
	require.Len(t, accounts, 2)
	require.NotNil(t, accounts[0].StudentID)
	assert.Equal(t, "2025-1234", *accounts[0].StudentID)
	assert.Nil(t, accounts[1].StudentID)
}

func TestImportTextSkipsDuplicates(t *testing.T) {
	practices := &fakePracticeRepo{}
	svc := newPracticeServiceForTest(practices, nil, nil)

	first, err := svc.ImportText(context.Background(), bookingExportFixture, 1)
	require.NoError(t, err)
	require.Len(t, first.Created, 2)

	second, err := svc.ImportText(context.Background(), bookingExportFixture, 1)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	require.Len(t, second.Errors, 2)
	assert.Equal(t, "2025-06-07", second.Errors[0].Date)
	assert.Contains(t, second.Errors[0].Error, "skipped")
}

func TestImportTextMissingSection(t *testing.T) {
	svc := newPracticeServiceForTest(nil, nil, nil)

	_, err := svc.ImportText(context.Background(), "予約はありません", 1)
	assert.Error(t, err)
}

func TestGetAttachesReservationAccounts(t *testing.T) {
	practices := &fakePracticeRepo{practices: map[int]*models.Practice{
		1: newTestPractice(models.PracticeOpen, 2, 4, time.Now().Add(time.Hour)),
	}}
	reservations := &fakeReservationRepo{batches: map[int][]models.ReservationAccount{
		1: {{PracticeID: 1, UserName: "山田太郎", UserNumber: "100234"}},
	}}
	svc := newPracticeServiceForTest(practices, reservations, nil)

	practice, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, practice.ReservationAccounts, 1)
	assert.Equal(t, "山田太郎", practice.ReservationAccounts[0].UserName)
}

func TestGetUnknownPractice(t *testing.T) {
	svc := newPracticeServiceForTest(nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPracticeNotFound)
}
