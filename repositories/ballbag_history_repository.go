package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/club-system/models"
)

type BallBagHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, h *models.BallBagHistory) error
	ListByBag(ctx context.Context, ballBagID int) ([]*models.BallBagHistory, error)
	// ListCandidates returns the strictly-attending participants of a practice
	// together with the most recent timestamp at which each took away any ball
	// bag, across all history. Rows are ordered by name for determinism; the
	// fairness ordering itself is applied by the service.
	ListCandidates(ctx context.Context, practiceID int) ([]*models.BallBagCandidate, error)
	YearlyCounts(ctx context.Context, year int) ([]*models.TakeawayCount, error)
}

type postgresBallBagHistoryRepository struct {
	db *sql.DB
}

func NewPostgresBallBagHistoryRepository(db *sql.DB) BallBagHistoryRepository {
	return &postgresBallBagHistoryRepository{db: db}
}

func (r *postgresBallBagHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBallBagHistoryRepository) Create(ctx context.Context, exec SQLExecutor, h *models.BallBagHistory) error {
	query := `
		INSERT INTO ball_bag_histories (ball_bag_id, practice_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, taken_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		h.BallBagID,
		h.PracticeID,
		h.UserID,
	).Scan(&h.ID, &h.TakenAt)

	if err != nil {
		return fmt.Errorf("failed to create ball bag history: %w", err)
	}
	return nil
}

func (r *postgresBallBagHistoryRepository) ListByBag(ctx context.Context, ballBagID int) ([]*models.BallBagHistory, error) {
	query := `
		SELECT bbh.id, bbh.ball_bag_id, bbh.practice_id, bbh.user_id, bbh.taken_at,
		       u.name, p.date
		FROM ball_bag_histories bbh
		JOIN users u ON bbh.user_id = u.id
		JOIN practices p ON bbh.practice_id = p.id
		WHERE bbh.ball_bag_id = $1
		ORDER BY bbh.taken_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ballBagID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ball bag history: %w", err)
	}
	defer rows.Close()

	history := make([]*models.BallBagHistory, 0)
	for rows.Next() {
		var h models.BallBagHistory
		if err := rows.Scan(
			&h.ID, &h.BallBagID, &h.PracticeID, &h.UserID, &h.TakenAt,
			&h.UserName, &h.PracticeDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ball bag history row: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ball bag history rows: %w", err)
	}
	return history, nil
}

func (r *postgresBallBagHistoryRepository) ListCandidates(ctx context.Context, practiceID int) ([]*models.BallBagCandidate, error) {
	query := `
		SELECT u.id, u.name, MAX(bbh.taken_at)
		FROM users u
		INNER JOIN participations p ON u.id = p.user_id
		LEFT JOIN ball_bag_histories bbh ON u.id = bbh.user_id
		WHERE p.practice_id = $1 AND p.status = 'attending'
		GROUP BY u.id, u.name
		ORDER BY u.name`

	rows, err := r.db.QueryContext(ctx, query, practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list takeaway candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]*models.BallBagCandidate, 0)
	for rows.Next() {
		var c models.BallBagCandidate
		if err := rows.Scan(&c.UserID, &c.Name, &c.LastTakenAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}
	return candidates, nil
}

func (r *postgresBallBagHistoryRepository) YearlyCounts(ctx context.Context, year int) ([]*models.TakeawayCount, error) {
	query := `
		SELECT u.id, u.name, COUNT(bbh.id)::INTEGER
		FROM ball_bag_histories bbh
		JOIN users u ON u.id = bbh.user_id
		JOIN practices p ON bbh.practice_id = p.id
		WHERE EXTRACT(YEAR FROM p.date) = $1
		GROUP BY u.id, u.name
		HAVING COUNT(bbh.id) > 0
		ORDER BY COUNT(bbh.id) DESC, u.name`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load takeaway stats: %w", err)
	}
	defer rows.Close()

	counts := make([]*models.TakeawayCount, 0)
	for rows.Next() {
		var c models.TakeawayCount
		if err := rows.Scan(&c.UserID, &c.UserName, &c.TakeawayCount); err != nil {
			return nil, fmt.Errorf("failed to scan takeaway stats row: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating takeaway stats rows: %w", err)
	}
	return counts, nil
}
