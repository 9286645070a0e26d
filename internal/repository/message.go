package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"warbler/internal/cache"
	"warbler/internal/model"
)

// foreignKeyViolation is the Postgres error code for a missing referenced row.
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a new message. The owner must exist; a dangling user_id is
// reported as model.ErrUserNotFound.
func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (user_id, text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, m.UserID, m.Text)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// messageRow is a message joined with its author columns.
type messageRow struct {
	model.Message
	AuthorID       int64  `db:"author_id"`
	AuthorUsername string `db:"author_username"`
	AuthorImageURL string `db:"author_image_url"`
}

func (row *messageRow) toMessage() model.Message {
	m := row.Message
	m.Author = &model.UserSummary{
		ID:       row.AuthorID,
		Username: row.AuthorUsername,
		ImageURL: row.AuthorImageURL,
	}
	return m
}

const messageSelect = `
	SELECT m.id, m.user_id, m.text, m.created_at,
	       u.id AS author_id, u.username AS author_username, u.image_url AS author_image_url
	FROM messages m
	JOIN users u ON u.id = m.user_id
`

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, messageSelect+` WHERE m.id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	m := row.toMessage()
	return &m, nil
}

// GetByIDs retrieves multiple messages with authors, re-ordered to match the
// input IDs. Used for hydrating the feed from cache; IDs whose message has
// been deleted since caching are dropped.
func (r *messageRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error) {
	if len(ids) == 0 {
		return []model.Message{}, nil
	}

	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows, messageSelect+` WHERE m.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get messages by ids: %w", err)
	}

	byID := make(map[int64]model.Message, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toMessage()
	}

	ordered := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}

	return ordered, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrMessageNotFound
	}

	return nil
}

// RecentForUsers returns the newest messages owned by any of userIDs.
// Ordered by (created_at DESC, id DESC); the ID tiebreak keeps the ordering
// deterministic when two messages share a timestamp.
func (r *messageRepository) RecentForUsers(ctx context.Context, userIDs []int64, limit int) ([]model.Message, error) {
	if len(userIDs) == 0 {
		return []model.Message{}, nil
	}

	query := messageSelect + `
		WHERE m.user_id = ANY($1)
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`

	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}

	messages := make([]model.Message, len(rows))
	for i := range rows {
		messages[i] = rows[i].toMessage()
	}
	return messages, nil
}

// FeedScores returns (id, timestamp) pairs for warming a feed cache.
func (r *messageRepository) FeedScores(ctx context.Context, userIDs []int64, limit int) ([]cache.MessageScore, error) {
	if len(userIDs) == 0 {
		return []cache.MessageScore{}, nil
	}

	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint AS timestamp
		FROM messages
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed scores: %w", err)
	}

	scores := make([]cache.MessageScore, len(rows))
	for i, r := range rows {
		scores[i] = cache.MessageScore{MessageID: r.ID, Timestamp: r.Timestamp}
	}
	return scores, nil
}

// ListLikedBy returns the messages a user has liked, newest like first.
func (r *messageRepository) ListLikedBy(ctx context.Context, userID int64) ([]model.Message, error) {
	query := `
		SELECT m.id, m.user_id, m.text, m.created_at,
		       u.id AS author_id, u.username AS author_username, u.image_url AS author_image_url
		FROM likes l
		JOIN messages m ON m.id = l.message_id
		JOIN users u ON u.id = m.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, m.id DESC
	`

	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked messages: %w", err)
	}

	messages := make([]model.Message, len(rows))
	for i := range rows {
		messages[i] = rows[i].toMessage()
		messages[i].IsLiked = true
	}
	return messages, nil
}
