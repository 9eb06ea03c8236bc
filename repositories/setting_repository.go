package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/club-system/models"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository interface {
	List(ctx context.Context) ([]*models.Setting, error)
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	UpdateValue(ctx context.Context, key, value string) (*models.Setting, error)
}

type postgresSettingRepository struct {
	db *sql.DB
}

func NewPostgresSettingRepository(db *sql.DB) SettingRepository {
	return &postgresSettingRepository{db: db}
}

func (r *postgresSettingRepository) List(ctx context.Context) ([]*models.Setting, error) {
	query := `SELECT id, key, value, description, updated_at FROM settings ORDER BY key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make([]*models.Setting, 0)
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

func (r *postgresSettingRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	query := `SELECT id, key, value, description, updated_at FROM settings WHERE key = $1`

	s := &models.Setting{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to find setting: %w", err)
	}
	return s, nil
}

func (r *postgresSettingRepository) UpdateValue(ctx context.Context, key, value string) (*models.Setting, error) {
	query := `
		UPDATE settings SET value = $1, updated_at = now()
		WHERE key = $2
		RETURNING id, key, value, description, updated_at`

	s := &models.Setting{}
	err := r.db.QueryRowContext(ctx, query, value, key).Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}
	return s, nil
}
