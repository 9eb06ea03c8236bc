package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/club-system/models"
)

var ErrPracticeNotFound = errors.New("practice not found")

// PracticeUpdate carries the optional fields of a partial practice update.
// A nil field is left untouched.
type PracticeUpdate struct {
	Date             *time.Time
	StartTime        *string
	EndTime          *string
	Location         *string
	Courts           *int
	CapacityPerCourt *int
	DeadlineDatetime *time.Time
	CourtFeePerCourt *int
	Status           *models.PracticeStatus
	Notes            *string
}

type PracticeRepository interface {
	Create(ctx context.Context, p *models.Practice) error
	GetByID(ctx context.Context, id int) (*models.Practice, error)
	List(ctx context.Context, filter models.PracticeFilter) ([]*models.Practice, error)
	Update(ctx context.Context, id int, upd PracticeUpdate) (*models.Practice, error)
	Delete(ctx context.Context, id int) error
	ExistsByDateAndStartTime(ctx context.Context, date time.Time, startTime string) (bool, error)
}

type postgresPracticeRepository struct {
	db *sql.DB
}

func NewPostgresPracticeRepository(db *sql.DB) PracticeRepository {
	return &postgresPracticeRepository{db: db}
}

const practiceColumns = `id, date, start_time, end_time, location, courts, capacity_per_court,
	deadline_datetime, court_fee_per_court, status, notes, created_by, created_at, updated_at`

func scanPractice(rowScanner interface{ Scan(dest ...interface{}) error }, p *models.Practice) error {
	return rowScanner.Scan(
		&p.ID,
		&p.Date,
		&p.StartTime,
		&p.EndTime,
		&p.Location,
		&p.Courts,
		&p.CapacityPerCourt,
		&p.DeadlineDatetime,
		&p.CourtFeePerCourt,
		&p.Status,
		&p.Notes,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresPracticeRepository) Create(ctx context.Context, p *models.Practice) error {
	query := `
		INSERT INTO practices
			(date, start_time, end_time, location, courts, capacity_per_court,
			 deadline_datetime, court_fee_per_court, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Date,
		p.StartTime,
		p.EndTime,
		p.Location,
		p.Courts,
		p.CapacityPerCourt,
		p.DeadlineDatetime,
		p.CourtFeePerCourt,
		p.Status,
		p.Notes,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create practice: %w", err)
	}
	return nil
}

func (r *postgresPracticeRepository) GetByID(ctx context.Context, id int) (*models.Practice, error) {
	query := `SELECT ` + practiceColumns + ` FROM practices WHERE id = $1`

	p := &models.Practice{}
	row := r.db.QueryRowContext(ctx, query, id)
	if err := scanPractice(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to find practice: %w", err)
	}
	return p, nil
}

func (r *postgresPracticeRepository) List(ctx context.Context, filter models.PracticeFilter) ([]*models.Practice, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + practiceColumns + ` FROM practices`)

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	argCounter := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCounter))
		args = append(args, *filter.FromDate)
		argCounter++
	}
	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCounter))
		args = append(args, *filter.ToDate)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY date DESC, start_time DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list practices: %w", err)
	}
	defer rows.Close()

	practices := make([]*models.Practice, 0)
	for rows.Next() {
		var p models.Practice
		if err := scanPractice(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan practice row: %w", err)
		}
		practices = append(practices, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating practice rows: %w", err)
	}
	return practices, nil
}

func (r *postgresPracticeRepository) Update(ctx context.Context, id int, upd PracticeUpdate) (*models.Practice, error) {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 10)
	argCounter := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}

	if upd.Date != nil {
		addSet("date", *upd.Date)
	}
	if upd.StartTime != nil {
		addSet("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		addSet("end_time", *upd.EndTime)
	}
	if upd.Location != nil {
		addSet("location", *upd.Location)
	}
	if upd.Courts != nil {
		addSet("courts", *upd.Courts)
	}
	if upd.CapacityPerCourt != nil {
		addSet("capacity_per_court", *upd.CapacityPerCourt)
	}
	if upd.DeadlineDatetime != nil {
		addSet("deadline_datetime", *upd.DeadlineDatetime)
	}
	if upd.CourtFeePerCourt != nil {
		addSet("court_fee_per_court", *upd.CourtFeePerCourt)
	}
	if upd.Status != nil {
		addSet("status", *upd.Status)
	}
	if upd.Notes != nil {
		addSet("notes", *upd.Notes)
	}

	if len(sets) == 0 {
		return nil, errors.New("no fields to update")
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE practices SET %s WHERE id = $%d RETURNING `+practiceColumns,
		strings.Join(sets, ", "), argCounter)

	p := &models.Practice{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := scanPractice(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to update practice: %w", err)
	}
	return p, nil
}

func (r *postgresPracticeRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM practices WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete practice: %w", err)
	}
	return checkAffectedRows(result, ErrPracticeNotFound)
}

func (r *postgresPracticeRepository) ExistsByDateAndStartTime(ctx context.Context, date time.Time, startTime string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM practices WHERE date = $1 AND start_time = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, date, startTime).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for duplicate practice: %w", err)
	}
	return exists, nil
}
