package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
)

const userColumns = `id, username, email, password, reset_token, reset_token_expiry, created_at`

type userRepository struct {
	db *sqlx.DB
}

func (r *userRepository) GetByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := r.db.Get(&user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user models.User
	err := r.db.Get(&user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	err := r.db.Get(&user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Create(params models.CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user models.User
	err := r.db.Get(&user, query, params.Username, models.NullStringFrom(params.Email), params.Password, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// CreateResetToken stores a fresh token with a one hour expiry and returns it.
func (r *userRepository) CreateResetToken(userID int64) (string, error) {
	token, err := storage.NewResetToken()
	if err != nil {
		return "", err
	}

	query := `
		UPDATE users
		SET reset_token = $2,
		    reset_token_expiry = $3
		WHERE id = $1
	`

	res, err := r.db.Exec(query, userID, token, time.Now().Add(storage.ResetTokenTTL))
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	if rows == 0 {
		return "", storage.ErrUserNotFound
	}

	return token, nil
}

// VerifyResetToken resolves the user only while the token is unexpired.
// Expired tokens stay on the row; they just stop matching.
func (r *userRepository) VerifyResetToken(token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token = $1 AND reset_token_expiry > $2
	`

	var user models.User
	err := r.db.Get(&user, query, token, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify reset token: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the password and clears the reset token in one
// statement.
func (r *userRepository) UpdatePassword(userID int64, password string) (bool, error) {
	query := `
		UPDATE users
		SET password = $2,
		    reset_token = NULL,
		    reset_token_expiry = NULL
		WHERE id = $1
	`

	res, err := r.db.Exec(query, userID, password)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}

	return rows > 0, nil
}
