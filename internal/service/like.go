package service

import (
	"context"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// LikeService toggles like edges. The self-like prohibition lives here, not
// in storage: the edge table would happily hold (owner, own message).
type LikeService struct {
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
}

func NewLikeService(likeRepo repository.LikeRepository, messageRepo repository.MessageRepository) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
	}
}

// Toggle likes the message when no edge exists and unlikes it when one does.
// Returns the resulting like-state. Users cannot like their own messages.
func (s *LikeService) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}

	if message.UserID == userID {
		return false, model.ErrCannotLikeOwn
	}

	return s.likeRepo.Toggle(ctx, userID, messageID)
}
