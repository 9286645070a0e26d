package model

import (
	"errors"
	"time"
)

// RefreshToken is a long-lived credential stored hashed in the database.
// Presenting one rotates it: the old token is revoked and linked to its
// replacement so reuse of a revoked token can be detected.
type RefreshToken struct {
	ID         string     `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	TokenHash  string     `db:"token_hash" json:"-"` // never expose the hash
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	ReplacedBy *string    `db:"replaced_by" json:"replaced_by,omitempty"`
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the token has passed its expiry.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Refresh token errors
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrRefreshTokenReused   = errors.New("refresh token reuse detected")
)

// Token API error codes (used in HTTP responses)
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenReused  = "TOKEN_REUSED"
)

// TokenPair is returned after login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until the access token expires
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshRequest is the request body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the request body for POST /auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
