package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrParticipationNotFound = errors.New("participation not found")
	// ErrParticipationConflict surfaces the UNIQUE(practice_id, user_id)
	// constraint; it backstops the find-then-insert race in the admission path.
	ErrParticipationConflict        = errors.New("participation conflict: user already signed up for this practice")
	ErrParticipationPracticeInvalid = errors.New("participation practice conflict or invalid")
	ErrParticipationUserInvalid     = errors.New("participation user conflict or invalid")
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *models.Participation) error
	UpdateStatusByPracticeAndUser(ctx context.Context, practiceID, userID int, status models.ParticipationStatus) (*models.Participation, error)
	FindByID(ctx context.Context, id int) (*models.Participation, error)
	FindByPracticeAndUser(ctx context.Context, practiceID, userID int) (*models.Participation, error)
	CountByPracticeAndStatuses(ctx context.Context, practiceID int, statuses ...models.ParticipationStatus) (int, error)
	ListByPractice(ctx context.Context, practiceID int) ([]*models.Participation, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Participation, error)
	StatsByPractice(ctx context.Context, practiceID int) (*models.ParticipationStats, error)
	Delete(ctx context.Context, id int) error
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

func scanParticipation(rowScanner interface{ Scan(dest ...interface{}) error }, p *models.Participation) error {
	return rowScanner.Scan(
		&p.ID,
		&p.PracticeID,
		&p.UserID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	query := `
		INSERT INTO participations (practice_id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.PracticeID,
		p.UserID,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrParticipationConflict
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participations_practice_id_fkey":
					return ErrParticipationPracticeInvalid
				case "participations_user_id_fkey":
					return ErrParticipationUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresParticipationRepository) UpdateStatusByPracticeAndUser(ctx context.Context, practiceID, userID int, status models.ParticipationStatus) (*models.Participation, error) {
	query := `
		UPDATE participations SET status = $1, updated_at = now()
		WHERE practice_id = $2 AND user_id = $3
		RETURNING id, practice_id, user_id, status, created_at, updated_at`

	p := &models.Participation{}
	row := r.db.QueryRowContext(ctx, query, status, practiceID, userID)
	if err := scanParticipation(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to update participation status: %w", err)
	}
	return p, nil
}

func (r *postgresParticipationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participation, error) {
	p := &models.Participation{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := scanParticipation(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to find participation: %w", err)
	}
	return p, nil
}

func (r *postgresParticipationRepository) FindByID(ctx context.Context, id int) (*models.Participation, error) {
	query := `SELECT id, practice_id, user_id, status, created_at, updated_at FROM participations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresParticipationRepository) FindByPracticeAndUser(ctx context.Context, practiceID, userID int) (*models.Participation, error) {
	query := `SELECT id, practice_id, user_id, status, created_at, updated_at FROM participations WHERE practice_id = $1 AND user_id = $2`
	return r.findOne(ctx, query, practiceID, userID)
}

func (r *postgresParticipationRepository) CountByPracticeAndStatuses(ctx context.Context, practiceID int, statuses ...models.ParticipationStatus) (int, error) {
	query := `SELECT COUNT(*) FROM participations WHERE practice_id = $1 AND status = ANY($2)`

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	var count int
	err := r.db.QueryRowContext(ctx, query, practiceID, pq.Array(statusStrings)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}

func (r *postgresParticipationRepository) ListByPractice(ctx context.Context, practiceID int) ([]*models.Participation, error) {
	query := `
		SELECT p.id, p.practice_id, p.user_id, p.status, p.created_at, p.updated_at,
		       u.name, u.email
		FROM participations p
		JOIN users u ON p.user_id = u.id
		WHERE p.practice_id = $1
		ORDER BY p.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations by practice: %w", err)
	}
	defer rows.Close()

	participations := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(
			&p.ID, &p.PracticeID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&p.UserName, &p.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		participations = append(participations, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation rows: %w", err)
	}
	return participations, nil
}

func (r *postgresParticipationRepository) ListByUser(ctx context.Context, userID int) ([]*models.Participation, error) {
	query := `
		SELECT p.id, p.practice_id, p.user_id, p.status, p.created_at, p.updated_at,
		       pr.date, pr.start_time, pr.location, pr.status
		FROM participations p
		JOIN practices pr ON p.practice_id = pr.id
		WHERE p.user_id = $1
		ORDER BY pr.date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations by user: %w", err)
	}
	defer rows.Close()

	participations := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(
			&p.ID, &p.PracticeID, &p.UserID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&p.PracticeDate, &p.StartTime, &p.Location, &p.PracticeStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		participations = append(participations, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation rows: %w", err)
	}
	return participations, nil
}

func (r *postgresParticipationRepository) StatsByPractice(ctx context.Context, practiceID int) (*models.ParticipationStats, error) {
	query := `SELECT status, COUNT(*) FROM participations WHERE practice_id = $1 GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, practiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participation stats: %w", err)
	}
	defer rows.Close()

	stats := &models.ParticipationStats{}
	for rows.Next() {
		var status models.ParticipationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan participation stats row: %w", err)
		}
		switch status {
		case models.StatusAttending:
			stats.Attending = count
		case models.StatusLate:
			stats.Late = count
		case models.StatusAbsent:
			stats.Absent = count
		case models.StatusWaitlist:
			stats.Waitlist = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation stats rows: %w", err)
	}
	return stats, nil
}

func (r *postgresParticipationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM participations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete participation: %w", err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}
