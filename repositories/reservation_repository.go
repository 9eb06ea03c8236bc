package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/club-system/models"
)

type ReservationRepository interface {
	CreateBatch(ctx context.Context, practiceID int, accounts []models.ReservationAccount) error
	ListByPractice(ctx context.Context, practiceID int) ([]models.ReservationAccount, error)
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

func (r *postgresReservationRepository) CreateBatch(ctx context.Context, practiceID int, accounts []models.ReservationAccount) error {
	query := `INSERT INTO court_reservations (practice_id, user_name, user_number, student_id) VALUES ($1, $2, $3, $4)`

	for _, a := range accounts {
		if _, err := r.db.ExecContext(ctx, query, practiceID, a.UserName, a.UserNumber, a.StudentID); err != nil {
			return fmt.Errorf("failed to create court reservation: %w", err)
		}
	}
	return nil
}

func (r *postgresReservationRepository) ListByPractice(ctx context.Context, practiceID int) ([]models.ReservationAccount, error) {
	query := `SELECT user_name, user_number, student_id FROM court_reservations WHERE practice_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list court reservations: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.ReservationAccount, 0)
	for rows.Next() {
		var a models.ReservationAccount
		if err := rows.Scan(&a.UserName, &a.UserNumber, &a.StudentID); err != nil {
			return nil, fmt.Errorf("failed to scan court reservation row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating court reservation rows: %w", err)
	}
	return accounts, nil
}
