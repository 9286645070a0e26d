package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"warbler/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle creates the like edge when absent and removes it when present,
// inside one transaction so the toggle is never observable half-applied.
// The composite primary key on (user_id, message_id) guarantees at most one
// edge even if two toggles race; the loser of the race flips the state back.
func (r *likeRepository) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO likes (user_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, message_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, insert, userID, messageID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, model.ErrMessageNotFound
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	liked := rows > 0
	if !liked {
		// Edge already existed: this toggle is an unlike.
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND message_id = $2`, userID, messageID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return liked, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND message_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// CheckLikes reports, per message ID, whether the user has liked it. Single
// batch query with ANY($2) rather than one query per message.
func (r *likeRepository) CheckLikes(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error) {
	if len(messageIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT message_id FROM likes WHERE user_id = $1 AND message_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(messageIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check likes: %w", err)
	}

	result := make(map[int64]bool, len(messageIDs))
	for _, id := range messageIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}
