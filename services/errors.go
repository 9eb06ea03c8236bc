package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule failures.
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidStatus         = errors.New("invalid participation status")
	ErrPracticeNotOpen       = errors.New("practice is not open for registration")
	ErrDeadlinePassed        = errors.New("registration deadline has passed")
	ErrNoParticipants        = errors.New("no participants for this practice")
	ErrNoAttendingCandidates = errors.New("no attending participants found")
	ErrNegativeFee           = errors.New("total fee must not be negative")

	// Conflicts.
	ErrStudentIDConflict     = errors.New("student id already registered")
	ErrParticipationConflict = errors.New("user is already signed up for this practice")

	// Authentication and authorization.
	ErrAuthInvalidCredentials   = errors.New("invalid student id or password")
	ErrAccountNotActivated      = errors.New("account not activated, please wait for admin approval")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrForbiddenOperation       = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors.
	ErrUserNotFound          = errors.New("user not found")
	ErrPracticeNotFound      = errors.New("practice not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrBallBagNotFound       = errors.New("ball bag not found")
	ErrCourtFeeNotFound      = errors.New("court fee not found")
	ErrSettingNotFound       = errors.New("setting not found")

	ErrUploaderDisabled = errors.New("file storage is not configured")
)

// InsufficientResourceError reports which resource kept the rotation
// allocator from running and by how much.
type InsufficientResourceError struct {
	Resource  string
	Required  int
	Available int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("not enough %s: required %d, available %d", e.Resource, e.Required, e.Available)
}
