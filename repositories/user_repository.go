package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserStudentIDConflict = errors.New("user conflict: student id already registered")
)

// UserProfileUpdate carries the optional profile fields of a user update.
// A nil field is left untouched.
type UserProfileUpdate struct {
	Name            *string `json:"name"`
	LineNotifyToken *string `json:"line_notify_token"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, id int, active bool) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, upd UserProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string, resetRequired bool) error
	UpdateAvatarKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
	ListLineNotifyTokens(ctx context.Context) ([]string, error)
	StudentIDByRegistrationNumber(ctx context.Context, registrationNumber string) (*string, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, name, student_id, registration_number, email, password_hash,
	password_reset_required, role, line_notify_token, avatar_key, is_active, created_at, updated_at`

func scanUser(rowScanner interface{ Scan(dest ...interface{}) error }, u *models.User) error {
	return rowScanner.Scan(
		&u.ID,
		&u.Name,
		&u.StudentID,
		&u.RegistrationNumber,
		&u.Email,
		&u.PasswordHash,
		&u.PasswordResetRequired,
		&u.Role,
		&u.LineNotifyToken,
		&u.AvatarKey,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, student_id, registration_number, password_hash, role, is_active, password_reset_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.StudentID,
		user.RegistrationNumber,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.PasswordResetRequired,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserStudentIDConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresUserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE student_id = $1`
	return r.findOne(ctx, query, studentID)
}

func (r *postgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) SetActive(ctx context.Context, id int, active bool) (*models.User, error) {
	query := `UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns

	u := &models.User{}
	row := r.db.QueryRowContext(ctx, query, active, id)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user activation: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, id int, upd UserProfileUpdate) (*models.User, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	argCounter := 1

	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argCounter))
		args = append(args, *upd.Name)
		argCounter++
	}
	if upd.LineNotifyToken != nil {
		// An empty token clears the stored value.
		sets = append(sets, fmt.Sprintf("line_notify_token = NULLIF($%d, '')", argCounter))
		args = append(args, *upd.LineNotifyToken)
		argCounter++
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), argCounter)

	u := &models.User{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string, resetRequired bool) error {
	query := `UPDATE users SET password_hash = $1, password_reset_required = $2, updated_at = now() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, resetRequired, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateAvatarKey(ctx context.Context, id int, key *string) error {
	query := `UPDATE users SET avatar_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to update user avatar key: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ListLineNotifyTokens(ctx context.Context) ([]string, error) {
	query := `
		SELECT line_notify_token FROM users
		WHERE is_active = TRUE AND line_notify_token IS NOT NULL AND line_notify_token <> ''`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notify tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan notify token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notify tokens: %w", err)
	}
	return tokens, nil
}

func (r *postgresUserRepository) StudentIDByRegistrationNumber(ctx context.Context, registrationNumber string) (*string, error) {
	query := `SELECT student_id FROM users WHERE registration_number = $1`

	var studentID string
	err := r.db.QueryRowContext(ctx, query, registrationNumber).Scan(&studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up student id by registration number: %w", err)
	}
	return &studentID, nil
}
