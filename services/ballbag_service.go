package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

// BallBagService управляет сумками с мячами: ручная фиксация передачи и
// автоматическое справедливое распределение перед практикой.
type BallBagService struct {
	db        *sql.DB
	bags      repositories.BallBagRepository
	histories repositories.BallBagHistoryRepository
	practices repositories.PracticeRepository
	logger    *slog.Logger
}

func NewBallBagService(
	db *sql.DB,
	bags repositories.BallBagRepository,
	histories repositories.BallBagHistoryRepository,
	practices repositories.PracticeRepository,
	logger *slog.Logger,
) *BallBagService {
	return &BallBagService{
		db:        db,
		bags:      bags,
		histories: histories,
		practices: practices,
		logger:    logger,
	}
}

// CreateBag registers a new physical bag.
func (s *BallBagService) CreateBag(ctx context.Context, name string) (*models.BallBag, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	bag := &models.BallBag{Name: name}
	if err := s.bags.Create(ctx, bag); err != nil {
		return nil, err
	}
	return bag, nil
}

// ListBags returns all bags with their current holders' names.
func (s *BallBagService) ListBags(ctx context.Context) ([]*models.BallBag, error) {
	return s.bags.ListWithHolders(ctx)
}

// RecordTakeaway directly records a single bag takeaway without any ranking,
// used for ad-hoc admin correction. The history insert and the holder update
// commit or roll back together.
func (s *BallBagService) RecordTakeaway(ctx context.Context, ballBagID, practiceID, userID int) error {
	if _, err := s.bags.GetByID(ctx, ballBagID); err != nil {
		if errors.Is(err, repositories.ErrBallBagNotFound) {
			return ErrBallBagNotFound
		}
		return fmt.Errorf("failed to load ball bag: %w", err)
	}
	if _, err := s.practices.GetByID(ctx, practiceID); err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return ErrPracticeNotFound
		}
		return fmt.Errorf("failed to load practice: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		history := &models.BallBagHistory{
			BallBagID:  ballBagID,
			PracticeID: practiceID,
			UserID:     userID,
		}
		if err := s.histories.Create(ctx, tx, history); err != nil {
			return err
		}
		return s.bags.UpdateHolder(ctx, tx, ballBagID, userID)
	})
}

// rankCandidates orders candidates for assignment: least recent takeaway
// first, участники без единой записи в истории — в самом начале, ties
// broken by name ascending.
func rankCandidates(candidates []*models.BallBagCandidate) []*models.BallBagCandidate {
	ranked := make([]*models.BallBagCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.LastTakenAt == nil && b.LastTakenAt == nil:
			return a.Name < b.Name
		case a.LastTakenAt == nil:
			return true
		case b.LastTakenAt == nil:
			return false
		case a.LastTakenAt.Equal(*b.LastTakenAt):
			return a.Name < b.Name
		default:
			return a.LastTakenAt.Before(*b.LastTakenAt)
		}
	})
	return ranked
}

// AutoAssign распределяет practice.Courts сумок между строго attending
// участниками, отдавая приоритет тем, кто дольше всех не носил сумку.
// All assignments of one invocation are applied atomically.
func (s *BallBagService) AutoAssign(ctx context.Context, practiceID int) ([]models.BallBagAssignment, error) {
	practice, err := s.practices.GetByID(ctx, practiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to load practice: %w", err)
	}
	required := practice.Courts

	candidates, err := s.histories.ListCandidates(ctx, practiceID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAttendingCandidates
	}
	if len(candidates) < required {
		return nil, &InsufficientResourceError{
			Resource:  "attending participants",
			Required:  required,
			Available: len(candidates),
		}
	}

	bags, err := s.bags.ListFirstN(ctx, required)
	if err != nil {
		return nil, err
	}
	if len(bags) < required {
		return nil, &InsufficientResourceError{
			Resource:  "ball bags",
			Required:  required,
			Available: len(bags),
		}
	}

	ranked := rankCandidates(candidates)
	assignments := make([]models.BallBagAssignment, 0, required)

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		for i := 0; i < required; i++ {
			bag := bags[i]
			candidate := ranked[i]

			history := &models.BallBagHistory{
				BallBagID:  bag.ID,
				PracticeID: practiceID,
				UserID:     candidate.UserID,
			}
			if err := s.histories.Create(ctx, tx, history); err != nil {
				return err
			}
			if err := s.bags.UpdateHolder(ctx, tx, bag.ID, candidate.UserID); err != nil {
				return err
			}

			assignments = append(assignments, models.BallBagAssignment{
				BallBagID:   bag.ID,
				BallBagName: bag.Name,
				UserID:      candidate.UserID,
				UserName:    candidate.Name,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ball bags assigned",
		slog.Int("practice_id", practiceID),
		slog.Int("count", len(assignments)))
	return assignments, nil
}

// History returns a bag's takeaway history, newest first.
func (s *BallBagService) History(ctx context.Context, ballBagID int) ([]*models.BallBagHistory, error) {
	if _, err := s.bags.GetByID(ctx, ballBagID); err != nil {
		if errors.Is(err, repositories.ErrBallBagNotFound) {
			return nil, ErrBallBagNotFound
		}
		return nil, fmt.Errorf("failed to load ball bag: %w", err)
	}
	return s.histories.ListByBag(ctx, ballBagID)
}

// Holders returns the bags currently held by a practice's attending or late
// participants.
func (s *BallBagService) Holders(ctx context.Context, practiceID int) ([]*models.BallBagHolder, error) {
	return s.bags.HoldersByPractice(ctx, practiceID)
}

// Stats returns per-user takeaway counts for the given year.
func (s *BallBagService) Stats(ctx context.Context, year int) ([]*models.TakeawayCount, error) {
	return s.histories.YearlyCounts(ctx, year)
}

func (s *BallBagService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", slog.Any("error", rbErr))
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
