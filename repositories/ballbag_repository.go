package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-system/models"
)

var ErrBallBagNotFound = errors.New("ball bag not found")

type BallBagRepository interface {
	Create(ctx context.Context, bag *models.BallBag) error
	GetByID(ctx context.Context, id int) (*models.BallBag, error)
	ListWithHolders(ctx context.Context) ([]*models.BallBag, error)
	// ListFirstN returns up to n bags in ascending id order. Bags are
	// fungible, so the allocator takes them in id order.
	ListFirstN(ctx context.Context, n int) ([]*models.BallBag, error)
	UpdateHolder(ctx context.Context, exec SQLExecutor, bagID, userID int) error
	HoldersByPractice(ctx context.Context, practiceID int) ([]*models.BallBagHolder, error)
}

type postgresBallBagRepository struct {
	db *sql.DB
}

func NewPostgresBallBagRepository(db *sql.DB) BallBagRepository {
	return &postgresBallBagRepository{db: db}
}

func (r *postgresBallBagRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBallBagRepository) Create(ctx context.Context, bag *models.BallBag) error {
	query := `INSERT INTO ball_bags (name) VALUES ($1) RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, bag.Name).Scan(&bag.ID, &bag.CreatedAt, &bag.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ball bag: %w", err)
	}
	return nil
}

func (r *postgresBallBagRepository) GetByID(ctx context.Context, id int) (*models.BallBag, error) {
	query := `SELECT id, name, current_holder_id, created_at, updated_at FROM ball_bags WHERE id = $1`

	b := &models.BallBag{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.CurrentHolderID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBallBagNotFound
		}
		return nil, fmt.Errorf("failed to find ball bag: %w", err)
	}
	return b, nil
}

func (r *postgresBallBagRepository) ListWithHolders(ctx context.Context) ([]*models.BallBag, error) {
	query := `
		SELECT bb.id, bb.name, bb.current_holder_id, bb.created_at, bb.updated_at, u.name
		FROM ball_bags bb
		LEFT JOIN users u ON bb.current_holder_id = u.id
		ORDER BY bb.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ball bags: %w", err)
	}
	defer rows.Close()

	bags := make([]*models.BallBag, 0)
	for rows.Next() {
		var b models.BallBag
		if err := rows.Scan(
			&b.ID, &b.Name, &b.CurrentHolderID, &b.CreatedAt, &b.UpdatedAt, &b.CurrentHolderName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ball bag row: %w", err)
		}
		bags = append(bags, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ball bag rows: %w", err)
	}
	return bags, nil
}

func (r *postgresBallBagRepository) ListFirstN(ctx context.Context, n int) ([]*models.BallBag, error) {
	query := `SELECT id, name, current_holder_id, created_at, updated_at FROM ball_bags ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list ball bags: %w", err)
	}
	defer rows.Close()

	bags := make([]*models.BallBag, 0, n)
	for rows.Next() {
		var b models.BallBag
		if err := rows.Scan(&b.ID, &b.Name, &b.CurrentHolderID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ball bag row: %w", err)
		}
		bags = append(bags, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ball bag rows: %w", err)
	}
	return bags, nil
}

func (r *postgresBallBagRepository) UpdateHolder(ctx context.Context, exec SQLExecutor, bagID, userID int) error {
	query := `UPDATE ball_bags SET current_holder_id = $1, updated_at = now() WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, userID, bagID)
	if err != nil {
		return fmt.Errorf("failed to update ball bag holder: %w", err)
	}
	return checkAffectedRows(result, ErrBallBagNotFound)
}

func (r *postgresBallBagRepository) HoldersByPractice(ctx context.Context, practiceID int) ([]*models.BallBagHolder, error) {
	query := `
		SELECT bb.id, bb.name, u.id, u.name
		FROM ball_bags bb
		JOIN users u ON bb.current_holder_id = u.id
		WHERE bb.current_holder_id IN (
			SELECT p.user_id FROM participations p
			WHERE p.practice_id = $1 AND p.status IN ('attending', 'late')
		)
		ORDER BY bb.id`

	rows, err := r.db.QueryContext(ctx, query, practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ball bag holders: %w", err)
	}
	defer rows.Close()

	holders := make([]*models.BallBagHolder, 0)
	for rows.Next() {
		var h models.BallBagHolder
		if err := rows.Scan(&h.BallBagID, &h.BallBagName, &h.UserID, &h.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan ball bag holder row: %w", err)
		}
		holders = append(holders, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ball bag holder rows: %w", err)
	}
	return holders, nil
}
