package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
)

// CourtFeeService делит аренду кортов поровну между участниками практики.
type CourtFeeService struct {
	fees           repositories.CourtFeeRepository
	participations repositories.ParticipationRepository
	practices      repositories.PracticeRepository
	settings       repositories.SettingRepository
}

func NewCourtFeeService(
	fees repositories.CourtFeeRepository,
	participations repositories.ParticipationRepository,
	practices repositories.PracticeRepository,
	settings repositories.SettingRepository,
) *CourtFeeService {
	return &CourtFeeService{
		fees:           fees,
		participations: participations,
		practices:      practices,
		settings:       settings,
	}
}

// splitFee computes the per-person share, rounded up so the collected sum
// never falls short of the total. The surplus is not tracked.
func splitFee(totalFee, participantCount int) int {
	return (totalFee + participantCount - 1) / participantCount
}

// Record computes and stores the fee split for a practice. Re-recording
// replaces the previous row's values.
func (s *CourtFeeService) Record(ctx context.Context, practiceID, totalFee int) (*models.CourtFee, error) {
	if totalFee < 0 {
		return nil, ErrNegativeFee
	}

	if _, err := s.practices.GetByID(ctx, practiceID); err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to load practice: %w", err)
	}

	participantCount, err := s.participations.CountByPracticeAndStatuses(ctx, practiceID,
		models.StatusAttending, models.StatusLate)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	if participantCount == 0 {
		return nil, ErrNoParticipants
	}

	fee := &models.CourtFee{
		PracticeID:       practiceID,
		TotalFee:         totalFee,
		ParticipantCount: participantCount,
		FeePerPerson:     splitFee(totalFee, participantCount),
	}
	if err := s.fees.Upsert(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// GetByPractice returns the recorded split for one practice.
func (s *CourtFeeService) GetByPractice(ctx context.Context, practiceID int) (*models.CourtFee, error) {
	fee, err := s.fees.GetByPractice(ctx, practiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtFeeNotFound) {
			return nil, ErrCourtFeeNotFound
		}
		return nil, err
	}
	return fee, nil
}

// UserStats returns what one member paid over a year.
func (s *CourtFeeService) UserStats(ctx context.Context, userID, year int) (*models.UserFeeStats, error) {
	stats, err := s.fees.UserStats(ctx, userID, year)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return stats, nil
}

// AllStats returns every active member's yearly payments compared against
// the annual fee from settings.
func (s *CourtFeeService) AllStats(ctx context.Context, year int) ([]*models.UserFeeBalance, error) {
	stats, err := s.fees.AllUserStats(ctx, year)
	if err != nil {
		return nil, err
	}

	annualFee := 0
	setting, err := s.settings.GetByKey(ctx, models.SettingAnnualFee)
	if err == nil {
		if v, convErr := strconv.Atoi(setting.Value); convErr == nil {
			annualFee = v
		}
	} else if !errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, fmt.Errorf("failed to load annual fee setting: %w", err)
	}

	balances := make([]*models.UserFeeBalance, 0, len(stats))
	for _, s := range stats {
		balances = append(balances, &models.UserFeeBalance{
			UserFeeStats: *s,
			AnnualFee:    annualFee,
			Difference:   annualFee - s.TotalPaid,
		})
	}
	return balances, nil
}
