package models

import "time"

// ParticipationStatus represents the signup status ENUM in the DB.
// Waitlist is a flat status, not a queue position.
type ParticipationStatus string

const (
	StatusAttending ParticipationStatus = "attending"
	StatusLate      ParticipationStatus = "late"
	StatusAbsent    ParticipationStatus = "absent"
	StatusWaitlist  ParticipationStatus = "waitlist"
)

// Valid reports whether s is one of the four known statuses.
func (s ParticipationStatus) Valid() bool {
	switch s {
	case StatusAttending, StatusLate, StatusAbsent, StatusWaitlist:
		return true
	}
	return false
}

// Participation joins one user to one practice. At most one row exists per
// (practice, user) pair; re-signup updates the row in place.
type Participation struct {
	ID         int                 `json:"id" db:"id"`
	PracticeID int                 `json:"practice_id" db:"practice_id"`
	UserID     int                 `json:"user_id" db:"user_id"`
	Status     ParticipationStatus `json:"status" db:"status"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`

	// Optional joined fields, populated by list queries.
	UserName       string          `json:"user_name,omitempty" db:"-"`
	UserEmail      *string         `json:"user_email,omitempty" db:"-"`
	PracticeDate   *time.Time      `json:"date,omitempty" db:"-"`
	StartTime      *string         `json:"start_time,omitempty" db:"-"`
	Location       *string         `json:"location,omitempty" db:"-"`
	PracticeStatus *PracticeStatus `json:"practice_status,omitempty" db:"-"`
}

// ParticipationStats are the per-status signup counts for one practice.
type ParticipationStats struct {
	Attending int `json:"attending"`
	Late      int `json:"late"`
	Absent    int `json:"absent"`
	Waitlist  int `json:"waitlist"`
}
