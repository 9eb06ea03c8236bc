package models

import "time"

// BallBag is a shared equipment bag. CurrentHolderID is a cached pointer to
// the most recent takeaway; ball_bag_histories is the source of truth.
type BallBag struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	CurrentHolderID *int      `json:"current_holder_id,omitempty" db:"current_holder_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	CurrentHolderName *string `json:"current_holder_name,omitempty" db:"-"`
}

// BallBagHistory is one append-only takeaway record.
type BallBagHistory struct {
	ID         int       `json:"id" db:"id"`
	BallBagID  int       `json:"ball_bag_id" db:"ball_bag_id"`
	PracticeID int       `json:"practice_id" db:"practice_id"`
	UserID     int       `json:"user_id" db:"user_id"`
	TakenAt    time.Time `json:"taken_at" db:"taken_at"`

	UserName     string     `json:"user_name,omitempty" db:"-"`
	PracticeDate *time.Time `json:"practice_date,omitempty" db:"-"`
}

// BallBagCandidate is an attending participant considered by the rotation
// allocator. LastTakenAt is nil when the user has never carried a bag.
type BallBagCandidate struct {
	UserID      int        `json:"user_id"`
	Name        string     `json:"name"`
	LastTakenAt *time.Time `json:"last_takeaway_date,omitempty"`
}

// BallBagAssignment is one bag-to-user pairing produced by the allocator.
type BallBagAssignment struct {
	BallBagID   int    `json:"ball_bag_id"`
	BallBagName string `json:"ball_bag_name"`
	UserID      int    `json:"user_id"`
	UserName    string `json:"user_name"`
}

// BallBagHolder is a bag currently held by one of a practice's participants.
type BallBagHolder struct {
	BallBagID   int    `json:"ball_bag_id"`
	BallBagName string `json:"ball_bag_name"`
	UserID      int    `json:"user_id"`
	UserName    string `json:"user_name"`
}

// TakeawayCount is a user's takeaway total for one year.
type TakeawayCount struct {
	UserID        int    `json:"user_id"`
	UserName      string `json:"user_name"`
	TakeawayCount int    `json:"takeaway_count"`
}
