package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"warbler/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow edge. ON CONFLICT DO NOTHING makes re-following
// idempotent: the composite primary key absorbs the duplicate and we report
// inserted=false instead of an error.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, model.ErrUserNotFound
		}
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}

	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.image_url
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.image_url
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return users, nil
}

func (r *followRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT follower_id FROM follows WHERE followee_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return ids, nil
}

func (r *followRepository) GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT followee_id FROM follows WHERE follower_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get followee ids: %w", err)
	}
	return ids, nil
}
