package models

import "time"

// UserRole represents the role ENUM in the DB.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

type User struct {
	ID                    int       `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	StudentID             string    `json:"student_id" db:"student_id"`
	RegistrationNumber    *string   `json:"registration_number,omitempty" db:"registration_number"`
	Email                 *string   `json:"email,omitempty" db:"email"`
	PasswordHash          string    `json:"-" db:"password_hash"`
	PasswordResetRequired bool      `json:"password_reset_required" db:"password_reset_required"`
	Role                  UserRole  `json:"role" db:"role"`
	LineNotifyToken       *string   `json:"line_notify_token,omitempty" db:"line_notify_token"`
	AvatarKey             *string   `json:"-" db:"avatar_key"`
	AvatarURL             *string   `json:"avatar_url,omitempty" db:"-"`
	IsActive              bool      `json:"is_active" db:"is_active"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}