package models

import "time"

// PracticeStatus represents the lifecycle ENUM of a practice in the DB.
type PracticeStatus string

const (
	PracticeOpen      PracticeStatus = "open"
	PracticeClosed    PracticeStatus = "closed"
	PracticeCompleted PracticeStatus = "completed"
	PracticeCancelled PracticeStatus = "cancelled"
)

// Practice is a scheduled club event. StartTime/EndTime are wall-clock
// strings ("HH:MM"), Date carries the calendar day.
type Practice struct {
	ID               int            `json:"id" db:"id"`
	Date             time.Time      `json:"date" db:"date"`
	StartTime        string         `json:"start_time" db:"start_time"`
	EndTime          *string        `json:"end_time,omitempty" db:"end_time"`
	Location         string         `json:"location" db:"location"`
	Courts           int            `json:"courts" db:"courts"`
	CapacityPerCourt int            `json:"capacity_per_court" db:"capacity_per_court"`
	DeadlineDatetime time.Time      `json:"deadline_datetime" db:"deadline_datetime"`
	CourtFeePerCourt int            `json:"court_fee_per_court" db:"court_fee_per_court"`
	Status           PracticeStatus `json:"status" db:"status"`
	Notes            *string        `json:"notes,omitempty" db:"notes"`
	CreatedBy        int            `json:"created_by" db:"created_by"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`

	// Reservation accounts imported alongside the practice, for payment
	// bookkeeping only.
	ReservationAccounts []ReservationAccount `json:"reservation_accounts,omitempty" db:"-"`
}

// TotalCapacity is the signup limit used by the admission check.
func (p *Practice) TotalCapacity() int {
	return p.Courts * p.CapacityPerCourt
}

// ReservationAccount is a name/number pair parsed from the booking-system
// export, optionally matched to a registered member's student id.
type ReservationAccount struct {
	PracticeID int     `json:"practice_id,omitempty" db:"practice_id"`
	UserName   string  `json:"user_name" db:"user_name"`
	UserNumber string  `json:"user_number" db:"user_number"`
	StudentID  *string `json:"student_id,omitempty" db:"student_id"`
}

// PracticeFilter narrows ListPractices results.
type PracticeFilter struct {
	Status   *PracticeStatus
	FromDate *time.Time
	ToDate   *time.Time
}
