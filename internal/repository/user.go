package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"warbler/internal/model"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a storage-level uniqueness
// violation. Uniqueness of username/email is enforced by the database, not
// just pre-checked, so a racing insert surfaces here and must be translated
// to a conflict instead of propagating raw.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, image_url, header_image_url, bio, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.ImageURL,
		u.HeaderImageURL,
		u.Bio,
		u.Location,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.ErrCredentialsTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, image_url, header_image_url, bio, location, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their exact username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hashed, image_url, header_image_url, bio, location, created_at
		FROM users
		WHERE username = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// Search matches usernames by case-sensitive substring. An empty query
// returns every user, matching the behavior of the user index page.
func (r *userRepository) Search(ctx context.Context, query string) ([]model.User, error) {
	searchQuery := `
		SELECT id, username, email, password_hashed, image_url, header_image_url, bio, location, created_at
		FROM users
		WHERE username LIKE '%' || $1 || '%'
		ORDER BY id
	`

	var users []model.User
	err := r.db.SelectContext(ctx, &users, searchQuery, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// Update writes the mutable profile fields back. Uniqueness of the new
// username/email is re-validated by the same storage constraints as Create;
// the user's own current row never conflicts with itself.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, image_url = $3, header_image_url = $4, bio = $5, location = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Username,
		u.Email,
		u.ImageURL,
		u.HeaderImageURL,
		u.Bio,
		u.Location,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCredentialsTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// Delete removes the user row. The messages, follows and likes referencing
// it are removed by the ON DELETE CASCADE foreign keys in the same statement.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}
