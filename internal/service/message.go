package service

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// MessageService handles posting, deleting and listing messages. It keeps the
// feed caches of the author's followers in sync as messages come and go.
type MessageService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	feedCache   cache.FeedCache
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	feedCache cache.FeedCache,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
		feedCache:   feedCache,
	}
}

// Post creates a message owned by userID. Text must be non-blank and at most
// 140 runes.
func (s *MessageService) Post(ctx context.Context, userID int64, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrTextRequired
	}
	if utf8.RuneCountInString(text) > model.MaxMessageLength {
		return nil, model.ErrTextTooLong
	}

	message := &model.Message{
		UserID: userID,
		Text:   text,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.fanOutAdd(ctx, message)

	return message, nil
}

// Delete removes a message. Only the owner may delete it; anyone else gets
// ErrNotMessageOwner, even when authenticated.
func (s *MessageService) Delete(ctx context.Context, userID, messageID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if message.UserID != userID {
		return model.ErrNotMessageOwner
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.fanOutRemove(ctx, message)

	return nil
}

// GetByID retrieves a single message with its author.
func (s *MessageService) GetByID(ctx context.Context, messageID int64) (*model.Message, error) {
	return s.messageRepo.GetByID(ctx, messageID)
}

// ListForUser returns a user's newest messages.
func (s *MessageService) ListForUser(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.messageRepo.RecentForUsers(ctx, []int64{userID}, model.UserTimelineLimit)
}

// ListLiked returns the messages a user has liked.
func (s *MessageService) ListLiked(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.messageRepo.ListLikedBy(ctx, userID)
}

// fanOutAdd pushes a new message into the feed caches of the author and
// every follower. Only caches that already exist are touched; a missing
// cache will be rebuilt complete on its owner's next feed read. Cache errors
// are logged, never surfaced: the message is already committed.
func (s *MessageService) fanOutAdd(ctx context.Context, message *model.Message) {
	ids, err := s.followRepo.GetFollowerIDs(ctx, message.UserID)
	if err != nil {
		log.Printf("[MessageService] Fan-out skipped, get followers failed: author=%d err=%v", message.UserID, err)
		return
	}
	ids = append(ids, message.UserID)

	ts := message.CreatedAt.Unix()
	for _, id := range ids {
		exists, err := s.feedCache.Exists(ctx, id)
		if err != nil || !exists {
			continue
		}
		if err := s.feedCache.AddMessage(ctx, id, message.ID, ts); err != nil {
			log.Printf("[MessageService] Fan-out add failed: user=%d message=%d err=%v", id, message.ID, err)
		}
	}
}

// fanOutRemove drops a deleted message from the author's and followers' feed
// caches. Removing from a non-existent cache is a harmless no-op.
func (s *MessageService) fanOutRemove(ctx context.Context, message *model.Message) {
	ids, err := s.followRepo.GetFollowerIDs(ctx, message.UserID)
	if err != nil {
		log.Printf("[MessageService] Fan-out skipped, get followers failed: author=%d err=%v", message.UserID, err)
		return
	}
	ids = append(ids, message.UserID)

	for _, id := range ids {
		if err := s.feedCache.RemoveMessage(ctx, id, message.ID); err != nil {
			log.Printf("[MessageService] Fan-out remove failed: user=%d message=%d err=%v", id, message.ID, err)
		}
	}
}
