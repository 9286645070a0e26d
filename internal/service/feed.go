package service

import (
	"context"
	"log"
	"time"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// CacheWarmLimit is the number of messages fetched when warming a cold feed
// cache. Larger than the page size so the cache survives deletions without
// immediately going stale.
const CacheWarmLimit = cache.FeedCacheCap

// FeedService assembles the home feed: the newest messages from the user and
// everyone they follow.
type FeedService struct {
	feedCache   cache.FeedCache
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
}

func NewFeedService(
	feedCache cache.FeedCache,
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
) *FeedService {
	return &FeedService{
		feedCache:   feedCache,
		messageRepo: messageRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
	}
}

// HomeTimeline returns up to 100 messages for the authenticated user, newest
// first.
//
// Flow:
//  1. Warm the cache from the database if the user has no cache entry
//  2. Read message IDs from the cache
//  3. Hydrate full messages (with authors) from the database
//  4. Mark the ones the viewer has liked
//
// When Redis is unavailable the feed falls back to the database directly.
func (s *FeedService) HomeTimeline(ctx context.Context, userID int64) ([]model.Message, error) {
	startTime := time.Now()

	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil {
		log.Printf("[FeedService] Cache check failed for user=%d: %v", userID, err)
		return s.timelineFromDB(ctx, userID)
	}

	if !exists {
		if err := s.warmCache(ctx, userID); err != nil {
			log.Printf("[FeedService] Cache warm failed for user=%d: %v", userID, err)
			return s.timelineFromDB(ctx, userID)
		}
	}

	ids, err := s.feedCache.GetFeed(ctx, userID, model.HomeTimelineLimit)
	if err != nil {
		log.Printf("[FeedService] Cache read failed for user=%d: %v", userID, err)
		return s.timelineFromDB(ctx, userID)
	}

	if len(ids) == 0 {
		return []model.Message{}, nil
	}

	messages, err := s.messageRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	messages = s.enrichWithLikeStatus(ctx, userID, messages)

	log.Printf("[FeedService] HomeTimeline OK: user=%d messages=%d duration=%v",
		userID, len(messages), time.Since(startTime))

	return messages, nil
}

// timelineFromDB computes the feed without the cache.
func (s *FeedService) timelineFromDB(ctx context.Context, userID int64) ([]model.Message, error) {
	ids, err := s.feedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.RecentForUsers(ctx, ids, model.HomeTimelineLimit)
	if err != nil {
		return nil, err
	}

	return s.enrichWithLikeStatus(ctx, userID, messages), nil
}

// warmCache populates the user's feed cache from the database.
func (s *FeedService) warmCache(ctx context.Context, userID int64) error {
	ids, err := s.feedUserIDs(ctx, userID)
	if err != nil {
		return err
	}

	scores, err := s.messageRepo.FeedScores(ctx, ids, CacheWarmLimit)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}

	return s.feedCache.WarmCache(ctx, userID, scores)
}

// feedUserIDs is the feed's owner set: the followees plus the user themself.
func (s *FeedService) feedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.followRepo.GetFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(ids, userID), nil
}

// enrichWithLikeStatus marks the messages the viewer has liked, using one
// batch query. A failed check degrades to is_liked=false rather than failing
// the feed.
func (s *FeedService) enrichWithLikeStatus(ctx context.Context, viewerID int64, messages []model.Message) []model.Message {
	if len(messages) == 0 {
		return messages
	}

	ids := make([]int64, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}

	likeMap, err := s.likeRepo.CheckLikes(ctx, viewerID, ids)
	if err != nil {
		log.Printf("[FeedService] Like check failed for user=%d: %v", viewerID, err)
		return messages
	}

	for i := range messages {
		messages[i].IsLiked = likeMap[messages[i].ID]
	}

	return messages
}
