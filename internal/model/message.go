package model

import (
	"errors"
	"time"
)

// Message constraints
const (
	// MaxMessageLength bounds the text of a single message, in runes.
	MaxMessageLength = 140

	// HomeTimelineLimit is the number of messages shown on the home feed.
	HomeTimelineLimit = 100

	// UserTimelineLimit is the number of messages shown on a user's page.
	UserTimelineLimit = 100
)

// Message represents a single posted message.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields (not in the messages table)
	Author  *UserSummary `json:"author,omitempty"`
	IsLiked bool         `json:"is_liked"`
}

// CreateMessageRequest is the request body for posting a message.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// Message errors
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotMessageOwner = errors.New("not the owner of this message")
	ErrTextRequired    = errors.New("message text is required")
	ErrTextTooLong     = errors.New("message text too long")
)
