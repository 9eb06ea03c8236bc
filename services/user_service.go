package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/club-system/importer"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/storage"
	"golang.org/x/crypto/bcrypt"
)

// UserService инкапсулирует управление участниками клуба: одобрение
// заявок, профили, аватары и массовый импорт из CSV.
type UserService struct {
	users    repositories.UserRepository
	uploader storage.FileUploader // nil when object storage is not configured
	logger   *slog.Logger
}

func NewUserService(users repositories.UserRepository, uploader storage.FileUploader, logger *slog.Logger) *UserService {
	return &UserService{users: users, uploader: uploader, logger: logger}
}

// CreateUserInput is the admin user-creation payload. Unlike
// self-registration, the admin may set the role and activation state.
type CreateUserInput struct {
	Name                  string           `json:"name"`
	StudentID             string           `json:"student_id"`
	Password              string           `json:"password"`
	Role                  *models.UserRole `json:"role"`
	IsActive              *bool            `json:"is_active"`
	PasswordResetRequired *bool            `json:"password_reset_required"`
}

// UserImportError records one rejected CSV row together with the student id
// that identifies it.
type UserImportError struct {
	StudentID string `json:"student_id"`
	Error     string `json:"error"`
}

// UserImportResult carries the parallel success/failure lists of one bulk
// import; a failing row never aborts the rest.
type UserImportResult struct {
	Created []*models.User    `json:"created"`
	Errors  []UserImportError `json:"errors"`
}

// Create adds a member directly, active by default.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		StudentID:    input.StudentID,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		IsActive:     true,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.PasswordResetRequired != nil {
		user.PasswordResetRequired = *input.PasswordResetRequired
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserStudentIDConflict) {
			return nil, ErrStudentIDConflict
		}
		return nil, err
	}
	return user, nil
}

// List returns all members, newest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		s.populateAvatarURL(u)
	}
	return users, nil
}

// Get returns one member.
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.populateAvatarURL(user)
	return user, nil
}

// Approve activates a self-registered account.
func (s *UserService) Approve(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.SetActive(ctx, id, true)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile modifies a member's own profile; admins may modify anyone.
func (s *UserService) UpdateProfile(ctx context.Context, id int, upd repositories.UserProfileUpdate, currentUserID int, currentRole models.UserRole) (*models.User, error) {
	if currentRole != models.RoleAdmin && currentUserID != id {
		return nil, ErrForbiddenOperation
	}

	user, err := s.users.UpdateProfile(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.populateAvatarURL(user)
	return user, nil
}

// Delete removes a member.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UploadAvatar stores a new avatar object and replaces the previous one.
func (s *UserService) UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrUploaderDisabled
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("avatars/user_%d_%d", userID, time.Now().UnixNano())
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.users.UpdateAvatarKey(ctx, userID, &key); err != nil {
		return nil, err
	}

	// Best-effort cleanup of the replaced object.
	if user.AvatarKey != nil {
		if err := s.uploader.Delete(ctx, *user.AvatarKey); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.String("key", *user.AvatarKey), slog.Any("error", err))
		}
	}

	user.AvatarKey = &key
	s.populateAvatarURL(user)
	return user, nil
}

// ImportCSV creates members from a roster export. The student id becomes the
// initial password and the account is flagged for a forced password change.
// Failing rows are collected; the remaining rows still proceed.
func (s *UserService) ImportCSV(ctx context.Context, csvData string) (*UserImportResult, error) {
	records, err := importer.ParseUsersCSV(csvData)
	if err != nil {
		return nil, err
	}

	result := &UserImportResult{
		Created: make([]*models.User, 0, len(records)),
		Errors:  make([]UserImportError, 0),
	}

	for _, rec := range records {
		if rec.Name == "" || rec.StudentID == "" {
			studentID := rec.StudentID
			if studentID == "" {
				studentID = "unknown"
			}
			result.Errors = append(result.Errors, UserImportError{
				StudentID: studentID,
				Error:     "missing name or student_id",
			})
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rec.StudentID), bcrypt.DefaultCost)
		if err != nil {
			result.Errors = append(result.Errors, UserImportError{StudentID: rec.StudentID, Error: err.Error()})
			continue
		}

		user := &models.User{
			Name:                  rec.Name,
			StudentID:             rec.StudentID,
			PasswordHash:          string(hashedPassword),
			Role:                  models.RoleMember,
			IsActive:              true,
			PasswordResetRequired: true,
		}
		if rec.RegistrationNumber != "" {
			regNum := rec.RegistrationNumber
			user.RegistrationNumber = &regNum
		}

		if err := s.users.Create(ctx, user); err != nil {
			msg := err.Error()
			if errors.Is(err, repositories.ErrUserStudentIDConflict) {
				msg = "student id already registered"
			}
			result.Errors = append(result.Errors, UserImportError{StudentID: rec.StudentID, Error: msg})
			continue
		}
		result.Created = append(result.Created, user)
	}
	return result, nil
}

func (s *UserService) populateAvatarURL(u *models.User) {
	if s.uploader != nil && u.AvatarKey != nil {
		url := s.uploader.GetPublicURL(*u.AvatarKey)
		u.AvatarURL = &url
	}
}
