package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
)

const userColumns = "id, name, email, password_hash, age, created_at, updated_at"

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(name, email, passwordHash string, age int) (*entities.User, error)
	FindByEmail(email string) (*entities.User, error)
	FindByID(id string) (*entities.User, error)
	FindByIDAndToken(id, token string) (*entities.User, error)
	Update(id string, name, email, passwordHash *string, age *int) (*entities.User, error)
	Delete(id string) error
	AddToken(userID, token string) error
	RemoveToken(userID, token string) error
	ClearTokens(userID string) error
	ListTokens(userID string) ([]string, error)
	SetAvatar(userID string, avatar []byte) error
	GetAvatar(userID string) ([]byte, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row *sql.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new user into the database
func (r *userRepository) Create(name, email, passwordHash string, age int) (*entities.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, age)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(query, name, email, passwordHash, age))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewValidationError("email", "already in use")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

// FindByIDAndToken finds a user only if the token is on the user's active
// token list. This is the revocation check: a signed token that has been
// logged out no longer resolves to a user.
func (r *userRepository) FindByIDAndToken(id, token string) (*entities.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.age, u.created_at, u.updated_at
		FROM users u
		INNER JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.token = $2
	`
	return scanUser(r.db.QueryRow(query, id, token))
}

// Update applies the provided non-nil fields and returns the updated user
func (r *userRepository) Update(id string, name, email, passwordHash *string, age *int) (*entities.User, error) {
	sets := []string{}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if name != nil {
		addSet("name", *name)
	}
	if email != nil {
		addSet("email", *email)
	}
	if passwordHash != nil {
		addSet("password_hash", *passwordHash)
	}
	if age != nil {
		addSet("age", *age)
	}
	if len(sets) == 0 {
		return r.FindByID(id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns,
	)

	user, err := scanUser(r.db.QueryRow(query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewValidationError("email", "already in use")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the user together with their tasks and tokens in a single
// transaction, so no observer can see a deleted user with orphaned tasks.
func (r *userRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks WHERE owner = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM user_tokens WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddToken appends a token to the user's active list. A plain INSERT, so
// concurrent logins never overwrite each other.
func (r *userRepository) AddToken(userID, token string) error {
	query := `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`
	if _, err := r.db.Exec(query, userID, token); err != nil {
		return fmt.Errorf("failed to add token: %w", err)
	}
	return nil
}

// RemoveToken removes a single token from the user's active list
func (r *userRepository) RemoveToken(userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	if _, err := r.db.Exec(query, userID, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// ClearTokens removes every active token for the user
func (r *userRepository) ClearTokens(userID string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// ListTokens returns the user's active tokens, oldest first
func (r *userRepository) ListTokens(userID string) ([]string, error) {
	query := `SELECT token FROM user_tokens WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}
	return tokens, nil
}

// SetAvatar stores (or clears, with nil) the user's avatar bytes
func (r *userRepository) SetAvatar(userID string, avatar []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.Exec(query, avatar, userID)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetAvatar returns the user's avatar bytes; ErrNotFound covers both a
// missing user and a user without an avatar.
func (r *userRepository) GetAvatar(userID string) ([]byte, error) {
	query := `SELECT avatar FROM users WHERE id = $1`
	var avatar []byte
	err := r.db.QueryRow(query, userID).Scan(&avatar)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	if len(avatar) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return avatar, nil
}
