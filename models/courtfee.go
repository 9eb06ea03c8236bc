package models

import "time"

// CourtFee holds one recorded fee split per practice. Re-recording replaces
// the row's values; no history of previous splits is kept.
type CourtFee struct {
	ID               int       `json:"id" db:"id"`
	PracticeID       int       `json:"practice_id" db:"practice_id"`
	TotalFee         int       `json:"total_fee" db:"total_fee"`
	ParticipantCount int       `json:"participant_count" db:"participant_count"`
	FeePerPerson     int       `json:"fee_per_person" db:"fee_per_person"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// UserFeeStats aggregates what one member paid over a year.
type UserFeeStats struct {
	UserID        int    `json:"id"`
	Name          string `json:"name"`
	TotalPaid     int    `json:"total_paid"`
	PracticeCount int    `json:"practice_count"`
}

// UserFeeBalance extends UserFeeStats with the annual-fee comparison used by
// the all-members payment overview.
type UserFeeBalance struct {
	UserFeeStats
	AnnualFee  int `json:"annual_fee"`
	Difference int `json:"difference"`
}
