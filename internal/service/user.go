package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/cache"
	"warbler/internal/model"
	"warbler/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService handles signup, authentication and profile management.
type UserService struct {
	repo      repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	feedCache cache.FeedCache
}

func NewUserService(repo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, feedCache cache.FeedCache) *UserService {
	return &UserService{
		repo:      repo,
		tokenRepo: tokenRepo,
		feedCache: feedCache,
	}
}

// Signup creates a new account. The password is stored only as a bcrypt hash.
// A taken username or email surfaces as model.ErrCredentialsTaken regardless
// of which field collided.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		PasswordHashed: string(hashedPassword),
		ImageURL:       orDefault(req.ImageURL, model.DefaultImageURL),
		HeaderImageURL: orDefault(req.HeaderImageURL, model.DefaultHeaderImageURL),
		Bio:            normalizeOptional(req.Bio),
		Location:       normalizeOptional(req.Location),
	}

	// The unique constraints on username/email are the real guard here; the
	// insert either succeeds or comes back as ErrCredentialsTaken, racing
	// signups included.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks a username/password pair. Every failure mode collapses
// into model.ErrInvalidCredentials so callers cannot probe which usernames
// exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// ConfirmPassword re-validates a password against a specific user's stored
// hash. Used as a step-up check before profile mutations.
func (s *UserService) ConfirmPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(password)); err != nil {
		return model.ErrInvalidPassword
	}

	return nil
}

// UpdateProfile applies a profile edit after the step-up password check.
// A wrong password fails with ErrInvalidPassword; a taken username/email
// fails with ErrCredentialsTaken. Callers can tell the two apart.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if err := s.ConfirmPassword(ctx, userID, req.Password); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, model.ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, model.ErrInvalidEmail
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	// Clearing an image field resets it to the placeholder.
	user.ImageURL = orDefault(req.ImageURL, model.DefaultImageURL)
	user.HeaderImageURL = orDefault(req.HeaderImageURL, model.DefaultHeaderImageURL)
	user.Bio = normalizeOptional(req.Bio)
	user.Location = normalizeOptional(req.Location)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user. Owned messages and the follow/like edges
// touching the user cascade at the storage level; here we also revoke every
// refresh token so the deleted identity cannot keep an authenticated session,
// and drop the stale feed cache.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		log.Printf("[UserService] Failed to revoke tokens for deleted user=%d: %v", userID, err)
	}

	if err := s.feedCache.Invalidate(ctx, userID); err != nil {
		log.Printf("[UserService] Failed to invalidate feed for deleted user=%d: %v", userID, err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Search finds users by case-sensitive username substring. An empty query
// lists everyone.
func (s *UserService) Search(ctx context.Context, query string) ([]model.User, error) {
	return s.repo.Search(ctx, query)
}

func validateSignup(req *model.SignupRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return model.ErrUsernameRequired
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return model.ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return model.ErrInvalidEmail
	}
	if len(req.Password) < model.MinPasswordLength {
		return model.ErrPasswordTooShort
	}
	return nil
}

// orDefault returns the fallback when the value is nil or blank.
func orDefault(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// normalizeOptional maps blank strings to nil.
func normalizeOptional(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
