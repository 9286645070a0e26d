package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/model"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func strPtr(s string) *string { return &s }

func TestSignup(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.SignupRequest
		repoErr error
		wantErr error
	}{
		{
			name: "success",
			req:  &model.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"},
		},
		{
			name:    "missing username",
			req:     &model.SignupRequest{Username: "  ", Email: "alice@example.com", Password: "secret1"},
			wantErr: model.ErrUsernameRequired,
		},
		{
			name:    "missing email",
			req:     &model.SignupRequest{Username: "alice", Email: "", Password: "secret1"},
			wantErr: model.ErrEmailRequired,
		},
		{
			name:    "malformed email",
			req:     &model.SignupRequest{Username: "alice", Email: "not-an-email", Password: "secret1"},
			wantErr: model.ErrInvalidEmail,
		},
		{
			name:    "password too short",
			req:     &model.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "abc12"},
			wantErr: model.ErrPasswordTooShort,
		},
		{
			name:    "username or email taken",
			req:     &model.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"},
			repoErr: model.ErrCredentialsTaken,
			wantErr: model.ErrCredentialsTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{
				CreateFunc: func(ctx context.Context, user *model.User) error {
					if tt.repoErr != nil {
						return tt.repoErr
					}
					user.ID = 1
					return nil
				},
			}
			svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

			user, err := svc.Signup(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Signup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signup() unexpected error: %v", err)
			}
			if user.ID != 1 {
				t.Errorf("user.ID = %d, want 1", user.ID)
			}
			if user.PasswordHashed == tt.req.Password {
				t.Error("password stored in plain text")
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(tt.req.Password)); err != nil {
				t.Errorf("stored hash does not match password: %v", err)
			}
		})
	}
}

func TestSignupAppliesImageDefaults(t *testing.T) {
	userRepo := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		ImageURL: strPtr("   "),
		Bio:      strPtr(""),
	})
	if err != nil {
		t.Fatalf("Signup() unexpected error: %v", err)
	}
	if user.ImageURL != model.DefaultImageURL {
		t.Errorf("ImageURL = %q, want default %q", user.ImageURL, model.DefaultImageURL)
	}
	if user.HeaderImageURL != model.DefaultHeaderImageURL {
		t.Errorf("HeaderImageURL = %q, want default %q", user.HeaderImageURL, model.DefaultHeaderImageURL)
	}
	if user.Bio != nil {
		t.Errorf("Bio = %q, want nil", *user.Bio)
	}
}

func TestAuthenticate(t *testing.T) {
	stored := &model.User{
		ID:             1,
		Username:       "alice",
		PasswordHashed: hashPassword(t, "secret1"),
	}

	tests := []struct {
		name     string
		username string
		password string
		repoErr  error
		wantErr  error
	}{
		{name: "success", username: "alice", password: "secret1"},
		{name: "wrong password", username: "alice", password: "wrong", wantErr: model.ErrInvalidCredentials},
		{name: "unknown user", username: "bob", password: "secret1", repoErr: model.ErrUserNotFound, wantErr: model.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{
				GetByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return stored, nil
				},
			}
			svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

			user, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() unexpected error: %v", err)
			}
			if user.ID != stored.ID {
				t.Errorf("user.ID = %d, want %d", user.ID, stored.ID)
			}
		})
	}
}

func TestUpdateProfileRequiresCurrentPassword(t *testing.T) {
	stored := &model.User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		PasswordHashed: hashPassword(t, "secret1"),
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			copy := *stored
			return &copy, nil
		},
		UpdateFunc: func(ctx context.Context, user *model.User) error {
			return nil
		},
	}
	svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Password: "wrong",
		Username: "alice2",
		Email:    "alice@example.com",
	})
	if !errors.Is(err, model.ErrInvalidPassword) {
		t.Fatalf("UpdateProfile() with wrong password error = %v, want %v", err, model.ErrInvalidPassword)
	}

	updated, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Password: "secret1",
		Username: "alice2",
		Email:    "alice2@example.com",
		Bio:      strPtr("hello"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}
	if updated.Username != "alice2" {
		t.Errorf("Username = %q, want %q", updated.Username, "alice2")
	}
	if updated.Email != "alice2@example.com" {
		t.Errorf("Email = %q, want %q", updated.Email, "alice2@example.com")
	}
	if updated.Bio == nil || *updated.Bio != "hello" {
		t.Errorf("Bio = %v, want %q", updated.Bio, "hello")
	}
	// Blank image fields reset to the placeholders.
	if updated.ImageURL != model.DefaultImageURL {
		t.Errorf("ImageURL = %q, want default", updated.ImageURL)
	}
}

func TestUpdateProfileConflict(t *testing.T) {
	stored := &model.User{
		ID:             1,
		Username:       "alice",
		Email:          "alice@example.com",
		PasswordHashed: hashPassword(t, "secret1"),
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			copy := *stored
			return &copy, nil
		},
		UpdateFunc: func(ctx context.Context, user *model.User) error {
			return model.ErrCredentialsTaken
		},
	}
	svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{
		Password: "secret1",
		Username: "bob",
		Email:    "alice@example.com",
	})
	if !errors.Is(err, model.ErrCredentialsTaken) {
		t.Fatalf("UpdateProfile() error = %v, want %v", err, model.ErrCredentialsTaken)
	}
}

func TestDeleteAccount(t *testing.T) {
	var deletedID int64
	var revokedUser int64
	var invalidatedUser int64

	userRepo := &mockUserRepo{
		DeleteFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	tokenRepo := &mockTokenRepo{
		RevokeAllForUserFunc: func(ctx context.Context, userID int64) error {
			revokedUser = userID
			return nil
		},
	}
	feedCache := &mockFeedCache{
		InvalidateFunc: func(ctx context.Context, userID int64) error {
			invalidatedUser = userID
			return nil
		},
	}
	svc := NewUserService(userRepo, tokenRepo, feedCache)

	if err := svc.DeleteAccount(context.Background(), 7); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if deletedID != 7 {
		t.Errorf("deleted user = %d, want 7", deletedID)
	}
	if revokedUser != 7 {
		t.Errorf("tokens revoked for user = %d, want 7", revokedUser)
	}
	if invalidatedUser != 7 {
		t.Errorf("feed invalidated for user = %d, want 7", invalidatedUser)
	}
}

func TestDeleteAccountNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		DeleteFunc: func(ctx context.Context, id int64) error {
			return model.ErrUserNotFound
		},
	}
	svc := NewUserService(userRepo, &mockTokenRepo{}, &mockFeedCache{})

	if err := svc.DeleteAccount(context.Background(), 99); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("DeleteAccount() error = %v, want %v", err, model.ErrUserNotFound)
	}
}
