package services

import (
	"context"
	"testing"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	repositories.UserRepository

	users  map[string]*models.User // keyed by student id
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	if _, exists := f.users[u.StudentID]; exists {
		return repositories.ErrUserStudentIDConflict
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.StudentID] = u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserStore) SetActive(_ context.Context, id int, active bool) (*models.User, error) {
	u, err := f.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	return u, nil
}

const usersCSVFixture = "氏名,カナ,学年,利用者番号,学籍番号\n" +
	"山田太郎,ヤマダタロウ,2,100234,2025-1234\n" +
	"佐藤花子,サトウハナコ,3,100235,2024-5678\n" +
	"名前だけ,,,,\n"

func TestImportCSVCreatesMembersWithResetRequired(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil, testLogger())

	result, err := svc.ImportCSV(context.Background(), usersCSVFixture)
	require.NoError(t, err)

	require.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)

	created := store.users["2025-1234"]
	require.NotNil(t, created)
	assert.True(t, created.IsActive)
	assert.True(t, created.PasswordResetRequired)
	assert.Equal(t, models.RoleMember, created.Role)
	require.NotNil(t, created.RegistrationNumber)
	assert.Equal(t, "100234", *created.RegistrationNumber)

	// The student id is the initial password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("2025-1234")))
}

func TestImportCSVCollectsRowErrorsAndContinues(t *testing.T) {
	store := newFakeUserStore()
	existing := &models.User{Name: "既存", StudentID: "2025-1234"}
	require.NoError(t, store.Create(context.Background(), existing))

	svc := NewUserService(store, nil, testLogger())

	result, err := svc.ImportCSV(context.Background(), usersCSVFixture)
	require.NoError(t, err)

	// The duplicate fails, the second row and the incomplete row are
	// reported, the rest proceeds.
	require.Len(t, result.Created, 1)
	assert.Equal(t, "2024-5678", result.Created[0].StudentID)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "2025-1234", result.Errors[0].StudentID)
}

func TestApproveActivatesAccount(t *testing.T) {
	store := newFakeUserStore()
	user := &models.User{Name: "山田太郎", StudentID: "2025-1234", IsActive: false}
	require.NoError(t, store.Create(context.Background(), user))

	svc := NewUserService(store, nil, testLogger())

	approved, err := svc.Approve(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsActive)
}

func TestApproveUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, testLogger())

	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileForbiddenForOtherMember(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, nil, testLogger())

	name := "新しい名前"
	_, err := svc.UpdateProfile(context.Background(), 1, repositories.UserProfileUpdate{Name: &name}, 2, models.RoleMember)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, testLogger())

	_, err := svc.UploadAvatar(context.Background(), 1, "image/png", nil)
	assert.ErrorIs(t, err, ErrUploaderDisabled)
}
