package service

import (
	"context"
	"log"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	feedCache  cache.FeedCache
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	feedCache cache.FeedCache,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		feedCache:  feedCache,
	}
}

// Follow makes followerID follow followeeID. Following yourself is rejected;
// following someone you already follow is an idempotent no-op success.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followeeID)
	if err != nil {
		return err
	}

	if inserted {
		s.invalidateFeed(ctx, followerID)
	}

	return nil
}

// Unfollow removes the edge. Unfollowing someone you don't follow always
// fails with ErrNotFollowing rather than silently succeeding.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return err
	}

	s.invalidateFeed(ctx, followerID)

	return nil
}

// GetFollowers lists the users following userID.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID)
}

// GetFollowing lists the users that userID follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID)
}

// IsFollowing reports whether userID follows otherID.
func (s *FollowService) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.followRepo.Exists(ctx, userID, otherID)
}

// IsFollowedBy reports whether otherID follows userID.
func (s *FollowService) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.followRepo.Exists(ctx, otherID, userID)
}

// invalidateFeed drops the follower's cached feed after a graph change; the
// next read rebuilds it with the new followee set. Cheaper and simpler than
// backfilling or selectively removing the followee's messages.
func (s *FollowService) invalidateFeed(ctx context.Context, followerID int64) {
	if err := s.feedCache.Invalidate(ctx, followerID); err != nil {
		log.Printf("[FollowService] Feed invalidation failed: user=%d err=%v", followerID, err)
	}
}
