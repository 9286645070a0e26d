package service

import (
	"context"
	"errors"
	"testing"

	"warbler/internal/model"
)

func TestFollow(t *testing.T) {
	tests := []struct {
		name           string
		followerID     int64
		followeeID     int64
		followeeErr    error
		inserted       bool
		wantErr        error
		wantInvalidate bool
	}{
		{name: "success", followerID: 1, followeeID: 2, inserted: true, wantInvalidate: true},
		{name: "self follow", followerID: 1, followeeID: 1, wantErr: model.ErrCannotFollowSelf},
		{name: "followee not found", followerID: 1, followeeID: 99, followeeErr: model.ErrUserNotFound, wantErr: model.ErrUserNotFound},
		// Already following: no error, and the intact cache is left alone.
		{name: "already following", followerID: 1, followeeID: 2, inserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invalidated := false

			userRepo := &mockUserRepo{
				GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
					if tt.followeeErr != nil {
						return nil, tt.followeeErr
					}
					return &model.User{ID: id}, nil
				},
			}
			followRepo := &mockFollowRepo{
				CreateFunc: func(ctx context.Context, followerID, followeeID int64) (bool, error) {
					return tt.inserted, nil
				},
			}
			feedCache := &mockFeedCache{
				InvalidateFunc: func(ctx context.Context, userID int64) error {
					if userID != tt.followerID {
						t.Errorf("invalidated feed for user=%d, want %d", userID, tt.followerID)
					}
					invalidated = true
					return nil
				},
			}
			svc := NewFollowService(followRepo, userRepo, feedCache)

			err := svc.Follow(context.Background(), tt.followerID, tt.followeeID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Follow() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Follow() unexpected error: %v", err)
			}
			if invalidated != tt.wantInvalidate {
				t.Errorf("feed invalidated = %v, want %v", invalidated, tt.wantInvalidate)
			}
		})
	}
}

func TestUnfollow(t *testing.T) {
	invalidated := false
	followRepo := &mockFollowRepo{
		DeleteFunc: func(ctx context.Context, followerID, followeeID int64) error {
			return nil
		},
	}
	feedCache := &mockFeedCache{
		InvalidateFunc: func(ctx context.Context, userID int64) error {
			invalidated = true
			return nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepo{}, feedCache)

	if err := svc.Unfollow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Unfollow() unexpected error: %v", err)
	}
	if !invalidated {
		t.Error("expected feed invalidation after unfollow")
	}
}

func TestUnfollowNotFollowing(t *testing.T) {
	followRepo := &mockFollowRepo{
		DeleteFunc: func(ctx context.Context, followerID, followeeID int64) error {
			return model.ErrNotFollowing
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepo{}, &mockFeedCache{})

	if err := svc.Unfollow(context.Background(), 1, 2); !errors.Is(err, model.ErrNotFollowing) {
		t.Fatalf("Unfollow() error = %v, want %v", err, model.ErrNotFollowing)
	}
}

func TestGetFollowersUnknownUser(t *testing.T) {
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewFollowService(&mockFollowRepo{}, userRepo, &mockFeedCache{})

	if _, err := svc.GetFollowers(context.Background(), 99); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("GetFollowers() error = %v, want %v", err, model.ErrUserNotFound)
	}
	if _, err := svc.GetFollowing(context.Background(), 99); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("GetFollowing() error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestIsFollowingDirections(t *testing.T) {
	// Edge: 1 follows 2, nothing back.
	followRepo := &mockFollowRepo{
		ExistsFunc: func(ctx context.Context, followerID, followeeID int64) (bool, error) {
			return followerID == 1 && followeeID == 2, nil
		},
	}
	svc := NewFollowService(followRepo, &mockUserRepo{}, &mockFeedCache{})

	following, err := svc.IsFollowing(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("IsFollowing() unexpected error: %v", err)
	}
	if !following {
		t.Error("IsFollowing(1, 2) = false, want true")
	}

	followedBy, err := svc.IsFollowedBy(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("IsFollowedBy() unexpected error: %v", err)
	}
	if followedBy {
		t.Error("IsFollowedBy(1, 2) = true, want false")
	}

	followedBy, err = svc.IsFollowedBy(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("IsFollowedBy() unexpected error: %v", err)
	}
	if !followedBy {
		t.Error("IsFollowedBy(2, 1) = false, want true")
	}
}
