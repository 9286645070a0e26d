package repository

import (
	"context"

	"warbler/internal/cache"
	"warbler/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Search matches usernames by case-sensitive substring. An empty query
	// returns all users.
	Search(ctx context.Context, query string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user. Messages, follow edges and like edges cascade
	// at the storage level.
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	// GetByIDs returns messages with authors, ordered to match the input IDs.
	// IDs that no longer exist are silently dropped.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error)
	Delete(ctx context.Context, id int64) error
	// RecentForUsers returns the newest messages owned by any of userIDs,
	// ordered by (created_at DESC, id DESC).
	RecentForUsers(ctx context.Context, userIDs []int64, limit int) ([]model.Message, error)
	// FeedScores returns (id, timestamp) pairs for cache warming.
	FeedScores(ctx context.Context, userIDs []int64, limit int) ([]cache.MessageScore, error)
	// ListLikedBy returns the messages a user has liked, newest like first.
	ListLikedBy(ctx context.Context, userID int64) ([]model.Message, error)
}

type FollowRepository interface {
	// Create inserts the edge if absent. Returns false without error when the
	// edge already exists.
	Create(ctx context.Context, followerID, followeeID int64) (bool, error)
	// Delete removes the edge, failing with model.ErrNotFollowing when it
	// does not exist.
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64) ([]model.UserSummary, error)
	GetFollowing(ctx context.Context, userID int64) ([]model.UserSummary, error)
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error)
}

type LikeRepository interface {
	// Toggle creates the edge when absent and removes it when present, in a
	// single transaction. Returns the resulting like-state.
	Toggle(ctx context.Context, userID, messageID int64) (liked bool, err error)
	Exists(ctx context.Context, userID, messageID int64) (bool, error)
	// CheckLikes reports, per message ID, whether the user has liked it.
	CheckLikes(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}
