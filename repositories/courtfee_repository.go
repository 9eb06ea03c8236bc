package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-system/models"
)

var ErrCourtFeeNotFound = errors.New("court fee not found")

type CourtFeeRepository interface {
	// Upsert inserts the fee row for a practice or, when one already exists,
	// replaces its total/count/per-person values. Recording is destructive:
	// no history of previous splits is retained.
	Upsert(ctx context.Context, fee *models.CourtFee) error
	GetByPractice(ctx context.Context, practiceID int) (*models.CourtFee, error)
	UserStats(ctx context.Context, userID, year int) (*models.UserFeeStats, error)
	AllUserStats(ctx context.Context, year int) ([]*models.UserFeeStats, error)
}

type postgresCourtFeeRepository struct {
	db *sql.DB
}

func NewPostgresCourtFeeRepository(db *sql.DB) CourtFeeRepository {
	return &postgresCourtFeeRepository{db: db}
}

func (r *postgresCourtFeeRepository) Upsert(ctx context.Context, fee *models.CourtFee) error {
	query := `
		INSERT INTO court_fees (practice_id, total_fee, participant_count, fee_per_person)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (practice_id) DO UPDATE
			SET total_fee = EXCLUDED.total_fee,
			    participant_count = EXCLUDED.participant_count,
			    fee_per_person = EXCLUDED.fee_per_person,
			    updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		fee.PracticeID,
		fee.TotalFee,
		fee.ParticipantCount,
		fee.FeePerPerson,
	).Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert court fee: %w", err)
	}
	return nil
}

func (r *postgresCourtFeeRepository) GetByPractice(ctx context.Context, practiceID int) (*models.CourtFee, error) {
	query := `
		SELECT id, practice_id, total_fee, participant_count, fee_per_person, created_at, updated_at
		FROM court_fees WHERE practice_id = $1`

	f := &models.CourtFee{}
	err := r.db.QueryRowContext(ctx, query, practiceID).Scan(
		&f.ID, &f.PracticeID, &f.TotalFee, &f.ParticipantCount, &f.FeePerPerson, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtFeeNotFound
		}
		return nil, fmt.Errorf("failed to find court fee: %w", err)
	}
	return f, nil
}

const userFeeStatsQuery = `
	SELECT u.id, u.name,
	       COALESCE(SUM(cf.fee_per_person), 0)::INTEGER,
	       COUNT(DISTINCT p.practice_id)::INTEGER
	FROM users u
	LEFT JOIN participations p ON u.id = p.user_id AND p.status IN ('attending', 'late')
	LEFT JOIN court_fees cf ON p.practice_id = cf.practice_id
	LEFT JOIN practices pr ON p.practice_id = pr.id`

func (r *postgresCourtFeeRepository) UserStats(ctx context.Context, userID, year int) (*models.UserFeeStats, error) {
	query := userFeeStatsQuery + `
	WHERE u.id = $1 AND (pr.date IS NULL OR EXTRACT(YEAR FROM pr.date) = $2)
	GROUP BY u.id, u.name`

	s := &models.UserFeeStats{}
	err := r.db.QueryRowContext(ctx, query, userID, year).Scan(
		&s.UserID, &s.Name, &s.TotalPaid, &s.PracticeCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user fee stats: %w", err)
	}
	return s, nil
}

func (r *postgresCourtFeeRepository) AllUserStats(ctx context.Context, year int) ([]*models.UserFeeStats, error) {
	query := userFeeStatsQuery + `
	WHERE u.is_active = TRUE AND (pr.date IS NULL OR EXTRACT(YEAR FROM pr.date) = $1)
	GROUP BY u.id, u.name
	ORDER BY COALESCE(SUM(cf.fee_per_person), 0) DESC`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load all user fee stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*models.UserFeeStats, 0)
	for rows.Next() {
		var s models.UserFeeStats
		if err := rows.Scan(&s.UserID, &s.Name, &s.TotalPaid, &s.PracticeCount); err != nil {
			return nil, fmt.Errorf("failed to scan user fee stats row: %w", err)
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user fee stats rows: %w", err)
	}
	return stats, nil
}
