package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

// ParticipationService реализует приём заявок на практику: проверка
// дедлайна, подсчёт вместимости и перевод в лист ожидания.
type ParticipationService struct {
	participations repositories.ParticipationRepository
	practices      repositories.PracticeRepository
	now            func() time.Time
}

func NewParticipationService(
	participations repositories.ParticipationRepository,
	practices repositories.PracticeRepository,
) *ParticipationService {
	return &ParticipationService{
		participations: participations,
		practices:      practices,
		now:            time.Now,
	}
}

// admissionStatus decides the stored status for a NEW signup. An attending
// request at or beyond capacity is downgraded to the waitlist; a late
// request is never downgraded.
func admissionStatus(requested models.ParticipationStatus, currentCount, capacity int) models.ParticipationStatus {
	if requested == models.StatusAttending && currentCount >= capacity {
		return models.StatusWaitlist
	}
	return requested
}

// Signup registers userID for a practice with the requested status, or
// updates the existing signup in place. Capacity is checked only for new
// rows; updates keep the requested status as-is.
func (s *ParticipationService) Signup(ctx context.Context, userID, practiceID int, requested models.ParticipationStatus) (*models.Participation, error) {
	if !requested.Valid() {
		return nil, ErrInvalidStatus
	}

	practice, err := s.practices.GetByID(ctx, practiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to load practice: %w", err)
	}

	if practice.Status != models.PracticeOpen {
		return nil, ErrPracticeNotOpen
	}
	if !s.now().Before(practice.DeadlineDatetime) {
		return nil, ErrDeadlinePassed
	}

	existing, err := s.participations.FindByPracticeAndUser(ctx, practiceID, userID)
	if err != nil && !errors.Is(err, repositories.ErrParticipationNotFound) {
		return nil, fmt.Errorf("failed to check existing participation: %w", err)
	}
	if existing != nil {
		// Re-signup overwrites the stored status without re-running the
		// capacity check.
		updated, err := s.participations.UpdateStatusByPracticeAndUser(ctx, practiceID, userID, requested)
		if err != nil {
			return nil, fmt.Errorf("failed to update participation: %w", err)
		}
		return updated, nil
	}

	currentCount, err := s.participations.CountByPracticeAndStatuses(ctx, practiceID,
		models.StatusAttending, models.StatusLate)
	if err != nil {
		return nil, fmt.Errorf("failed to count participations: %w", err)
	}

	participation := &models.Participation{
		PracticeID: practiceID,
		UserID:     userID,
		Status:     admissionStatus(requested, currentCount, practice.TotalCapacity()),
	}

	if err := s.participations.Create(ctx, participation); err != nil {
		if errors.Is(err, repositories.ErrParticipationConflict) {
			return nil, ErrParticipationConflict
		}
		return nil, err
	}
	return participation, nil
}

// ListByPractice returns all signups for a practice with user names attached.
func (s *ParticipationService) ListByPractice(ctx context.Context, practiceID int) ([]*models.Participation, error) {
	return s.participations.ListByPractice(ctx, practiceID)
}

// ListByUser returns the caller's signups with practice details attached.
func (s *ParticipationService) ListByUser(ctx context.Context, userID int) ([]*models.Participation, error) {
	return s.participations.ListByUser(ctx, userID)
}

// Stats returns per-status signup counts for one practice.
func (s *ParticipationService) Stats(ctx context.Context, practiceID int) (*models.ParticipationStats, error) {
	return s.participations.StatsByPractice(ctx, practiceID)
}

// Delete removes a signup. Members may remove only their own; admins any.
func (s *ParticipationService) Delete(ctx context.Context, id, currentUserID int, currentRole models.UserRole) error {
	if currentRole != models.RoleAdmin {
		participation, err := s.participations.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipationNotFound) {
				return ErrParticipationNotFound
			}
			return fmt.Errorf("failed to load participation: %w", err)
		}
		if participation.UserID != currentUserID {
			return ErrForbiddenOperation
		}
	}

	if err := s.participations.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}
		return err
	}
	return nil
}
