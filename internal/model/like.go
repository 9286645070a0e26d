package model

import (
	"errors"
	"time"
)

// Like marks a message as liked by a user. Likes are toggled: the same
// operation creates the edge when absent and removes it when present.
type Like struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	MessageID int64     `db:"message_id" json:"message_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LikeResponse reports the like-state after a toggle.
type LikeResponse struct {
	MessageID int64 `json:"message_id"`
	Liked     bool  `json:"liked"`
}

// ErrCannotLikeOwn is returned when a user tries to like their own message.
var ErrCannotLikeOwn = errors.New("cannot like your own message")
