package model

import (
	"errors"
	"time"
)

// Follow is a directed edge: follower sees followee's messages in their feed.
type Follow struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FolloweeID int64     `db:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

var (
	ErrNotFollowing     = errors.New("not following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
