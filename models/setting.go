package models

import "time"

// Setting is one key/value row of the club-wide configuration store.
type Setting struct {
	ID          int       `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description,omitempty" db:"description"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Well-known setting keys.
const (
	SettingAnnualFee             = "annual_fee"
	SettingDefaultDeadlineOffset = "default_deadline_offset"
)
