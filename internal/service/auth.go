package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"warbler/internal/config"
	"warbler/internal/model"
	"warbler/internal/repository"
)

// AuthService issues access tokens and manages refresh tokens with rotation
// and reuse detection.
type AuthService struct {
	tokenRepo repository.RefreshTokenRepository
	config    *config.Config
}

func NewAuthService(tokenRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		tokenRepo: tokenRepo,
		config:    cfg,
	}
}

// GenerateTokenPair issues a new access token and persists a refresh token.
func (s *AuthService) GenerateTokenPair(ctx context.Context, userID int64) (*model.TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshTokenRaw := uuid.New().String()

	refreshToken := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: s.hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second),
	}

	if err := s.tokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, nil
}

// RefreshTokens validates the presented refresh token and rotates a new pair.
// A revoked token presented again means the raw token leaked or was replayed;
// the whole family is revoked in response.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshTokenRaw string) (*model.TokenPair, int64, error) {
	token, err := s.tokenRepo.FindByTokenHash(ctx, s.hashToken(refreshTokenRaw))
	if err != nil {
		return nil, 0, model.ErrRefreshTokenNotFound
	}

	if token.IsRevoked() {
		if err := s.tokenRepo.RevokeAllForUser(ctx, token.UserID); err != nil {
			log.Printf("[AuthService] Failed to revoke token family for user=%d: %v", token.UserID, err)
		}
		return nil, 0, model.ErrRefreshTokenReused
	}

	if token.IsExpired() {
		return nil, 0, model.ErrRefreshTokenExpired
	}

	newPair, err := s.GenerateTokenPair(ctx, token.UserID)
	if err != nil {
		return nil, 0, err
	}

	var replacedBy *string
	if newToken, err := s.tokenRepo.FindByTokenHash(ctx, s.hashToken(newPair.RefreshToken)); err == nil {
		replacedBy = &newToken.ID
	}

	if err := s.tokenRepo.Revoke(ctx, token.ID, replacedBy); err != nil {
		log.Printf("[AuthService] Failed to revoke rotated token id=%s: %v", token.ID, err)
	}

	return newPair, token.UserID, nil
}

// RevokeRefreshToken revokes a single refresh token (logout).
func (s *AuthService) RevokeRefreshToken(ctx context.Context, refreshTokenRaw string) error {
	token, err := s.tokenRepo.FindByTokenHash(ctx, s.hashToken(refreshTokenRaw))
	if err != nil {
		return err
	}
	return s.tokenRepo.Revoke(ctx, token.ID, nil)
}

// RevokeAllUserTokens revokes every refresh token for a user (logout-all).
func (s *AuthService) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) generateAccessToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
