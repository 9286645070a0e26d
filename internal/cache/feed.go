package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// FeedCachePrefix is the key prefix for user feed caches.
	FeedCachePrefix = "feed:user:"

	// FeedCacheCap is the maximum number of message IDs cached per user.
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for a feed cache entry.
	FeedCacheTTL = 7 * 24 * time.Hour
)

// MessageScore pairs a message ID with its creation timestamp, the sort key
// of the feed.
type MessageScore struct {
	MessageID int64
	Timestamp int64 // Unix seconds
}

// FeedCache holds, per user, the IDs of the most recent messages from the
// user and everyone they follow. Services keep it in sync synchronously:
// message create/delete fans out to follower caches, follow changes
// invalidate so the next read re-warms.
type FeedCache interface {
	// AddMessage inserts a message into a user's feed cache, trimming to the
	// cap and refreshing the TTL.
	AddMessage(ctx context.Context, userID, messageID, timestamp int64) error

	// RemoveMessage removes a message from a user's feed cache.
	RemoveMessage(ctx context.Context, userID, messageID int64) error

	// GetFeed returns up to limit message IDs, newest first.
	GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error)

	// WarmCache bulk-inserts messages into a user's feed cache.
	WarmCache(ctx context.Context, userID int64, messages []MessageScore) error

	// Exists reports whether the user has a feed cache entry. False means a
	// new user or an expired TTL; the service should warm the cache.
	Exists(ctx context.Context, userID int64) (bool, error)

	// Invalidate drops a user's feed cache entirely.
	Invalidate(ctx context.Context, userID int64) error
}

// RedisFeedCache implements FeedCache using Redis sorted sets.
type RedisFeedCache struct {
	client *redis.Client
}

func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("%s%d", FeedCachePrefix, userID)
}

// AddMessage pipelines ZADD + ZREMRANGEBYRANK (trim to cap) + EXPIRE.
func (c *RedisFeedCache) AddMessage(ctx context.Context, userID, messageID, timestamp int64) error {
	key := feedKey(userID)

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(timestamp),
		Member: strconv.FormatInt(messageID, 10),
	})
	// Rank 0 is the lowest score (oldest); keep only the newest FeedCacheCap.
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] AddMessage FAILED: user=%d message=%d err=%v", userID, messageID, err)
		return fmt.Errorf("add message to feed: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) RemoveMessage(ctx context.Context, userID, messageID int64) error {
	member := strconv.FormatInt(messageID, 10)
	if err := c.client.ZRem(ctx, feedKey(userID), member).Err(); err != nil {
		log.Printf("[FeedCache] RemoveMessage FAILED: user=%d message=%d err=%v", userID, messageID, err)
		return fmt.Errorf("remove message from feed: %w", err)
	}
	return nil
}

// GetFeed reads the newest message IDs via ZREVRANGE.
func (c *RedisFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	members, err := c.client.ZRevRange(ctx, feedKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			// Skip corrupt members rather than failing the whole feed.
			log.Printf("[FeedCache] GetFeed: bad member %q for user=%d", m, userID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// WarmCache pipelines ZADD for each message plus a trim and an EXPIRE.
func (c *RedisFeedCache) WarmCache(ctx context.Context, userID int64, messages []MessageScore) error {
	if len(messages) == 0 {
		return nil
	}
	key := feedKey(userID)

	pipe := c.client.Pipeline()
	for _, m := range messages {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(m.Timestamp),
			Member: strconv.FormatInt(m.MessageID, 10),
		})
	}
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] WarmCache FAILED: user=%d messages=%d err=%v", userID, len(messages), err)
		return fmt.Errorf("warm feed cache: %w", err)
	}

	log.Printf("[FeedCache] WarmCache OK: user=%d messages=%d", userID, len(messages))
	return nil
}

func (c *RedisFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	n, err := c.client.Exists(ctx, feedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check feed exists: %w", err)
	}
	return n > 0, nil
}

func (c *RedisFeedCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, feedKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate feed: %w", err)
	}
	return nil
}
