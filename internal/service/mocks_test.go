package service

import (
	"context"

	"warbler/internal/cache"
	"warbler/internal/model"
)

// Function-field mocks shared by the service tests. Only the fields a test
// sets are callable; calling an unset field panics, which surfaces unexpected
// interactions loudly.

type mockUserRepo struct {
	CreateFunc        func(ctx context.Context, user *model.User) error
	GetByIDFunc       func(ctx context.Context, id int64) (*model.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	SearchFunc        func(ctx context.Context, query string) ([]model.User, error)
	UpdateFunc        func(ctx context.Context, user *model.User) error
	DeleteFunc        func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) Search(ctx context.Context, query string) ([]model.User, error) {
	return m.SearchFunc(ctx, query)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.UpdateFunc(ctx, user)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockMessageRepo struct {
	CreateFunc         func(ctx context.Context, message *model.Message) error
	GetByIDFunc        func(ctx context.Context, id int64) (*model.Message, error)
	GetByIDsFunc       func(ctx context.Context, ids []int64) ([]model.Message, error)
	DeleteFunc         func(ctx context.Context, id int64) error
	RecentForUsersFunc func(ctx context.Context, userIDs []int64, limit int) ([]model.Message, error)
	FeedScoresFunc     func(ctx context.Context, userIDs []int64, limit int) ([]cache.MessageScore, error)
	ListLikedByFunc    func(ctx context.Context, userID int64) ([]model.Message, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, message *model.Message) error {
	return m.CreateFunc(ctx, message)
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockMessageRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error) {
	return m.GetByIDsFunc(ctx, ids)
}

func (m *mockMessageRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockMessageRepo) RecentForUsers(ctx context.Context, userIDs []int64, limit int) ([]model.Message, error) {
	return m.RecentForUsersFunc(ctx, userIDs, limit)
}

func (m *mockMessageRepo) FeedScores(ctx context.Context, userIDs []int64, limit int) ([]cache.MessageScore, error) {
	return m.FeedScoresFunc(ctx, userIDs, limit)
}

func (m *mockMessageRepo) ListLikedBy(ctx context.Context, userID int64) ([]model.Message, error) {
	return m.ListLikedByFunc(ctx, userID)
}

type mockFollowRepo struct {
	CreateFunc         func(ctx context.Context, followerID, followeeID int64) (bool, error)
	DeleteFunc         func(ctx context.Context, followerID, followeeID int64) error
	ExistsFunc         func(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowersFunc   func(ctx context.Context, userID int64) ([]model.UserSummary, error)
	GetFollowingFunc   func(ctx context.Context, userID int64) ([]model.UserSummary, error)
	GetFollowerIDsFunc func(ctx context.Context, userID int64) ([]int64, error)
	GetFolloweeIDsFunc func(ctx context.Context, userID int64) ([]int64, error)
}

func (m *mockFollowRepo) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return m.CreateFunc(ctx, followerID, followeeID)
}

func (m *mockFollowRepo) Delete(ctx context.Context, followerID, followeeID int64) error {
	return m.DeleteFunc(ctx, followerID, followeeID)
}

func (m *mockFollowRepo) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return m.ExistsFunc(ctx, followerID, followeeID)
}

func (m *mockFollowRepo) GetFollowers(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	return m.GetFollowersFunc(ctx, userID)
}

func (m *mockFollowRepo) GetFollowing(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	return m.GetFollowingFunc(ctx, userID)
}

func (m *mockFollowRepo) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return m.GetFollowerIDsFunc(ctx, userID)
}

func (m *mockFollowRepo) GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
	return m.GetFolloweeIDsFunc(ctx, userID)
}

type mockLikeRepo struct {
	ToggleFunc     func(ctx context.Context, userID, messageID int64) (bool, error)
	ExistsFunc     func(ctx context.Context, userID, messageID int64) (bool, error)
	CheckLikesFunc func(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error)
}

func (m *mockLikeRepo) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	return m.ToggleFunc(ctx, userID, messageID)
}

func (m *mockLikeRepo) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	return m.ExistsFunc(ctx, userID, messageID)
}

func (m *mockLikeRepo) CheckLikes(ctx context.Context, userID int64, messageIDs []int64) (map[int64]bool, error) {
	return m.CheckLikesFunc(ctx, userID, messageIDs)
}

type mockTokenRepo struct {
	CreateFunc           func(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHashFunc  func(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RevokeFunc           func(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUserFunc func(ctx context.Context, userID int64) error
}

func (m *mockTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	return m.CreateFunc(ctx, token)
}

func (m *mockTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	return m.FindByTokenHashFunc(ctx, tokenHash)
}

func (m *mockTokenRepo) Revoke(ctx context.Context, id string, replacedBy *string) error {
	return m.RevokeFunc(ctx, id, replacedBy)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	return m.RevokeAllForUserFunc(ctx, userID)
}

type mockFeedCache struct {
	AddMessageFunc    func(ctx context.Context, userID, messageID, timestamp int64) error
	RemoveMessageFunc func(ctx context.Context, userID, messageID int64) error
	GetFeedFunc       func(ctx context.Context, userID int64, limit int) ([]int64, error)
	WarmCacheFunc     func(ctx context.Context, userID int64, messages []cache.MessageScore) error
	ExistsFunc        func(ctx context.Context, userID int64) (bool, error)
	InvalidateFunc    func(ctx context.Context, userID int64) error
}

func (m *mockFeedCache) AddMessage(ctx context.Context, userID, messageID, timestamp int64) error {
	return m.AddMessageFunc(ctx, userID, messageID, timestamp)
}

func (m *mockFeedCache) RemoveMessage(ctx context.Context, userID, messageID int64) error {
	return m.RemoveMessageFunc(ctx, userID, messageID)
}

func (m *mockFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	return m.GetFeedFunc(ctx, userID, limit)
}

func (m *mockFeedCache) WarmCache(ctx context.Context, userID int64, messages []cache.MessageScore) error {
	return m.WarmCacheFunc(ctx, userID, messages)
}

func (m *mockFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	return m.ExistsFunc(ctx, userID)
}

func (m *mockFeedCache) Invalidate(ctx context.Context, userID int64) error {
	return m.InvalidateFunc(ctx, userID)
}
