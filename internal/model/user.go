package model

import (
	"errors"
	"time"
)

// Placeholder images applied when a user leaves the fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 6

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides the hash from JSON output
	ImageURL       string    `db:"image_url" json:"image_url"`
	HeaderImageURL string    `db:"header_image_url" json:"header_image_url"`
	Bio            *string   `db:"bio" json:"bio"`
	Location       *string   `db:"location" json:"location"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the lightweight projection used in listings.
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	ImageURL string `db:"image_url" json:"image_url"`
}

// SignupRequest represents the data needed to create a new account.
type SignupRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ImageURL       *string `json:"image_url"`
	HeaderImageURL *string `json:"header_image_url"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
}

// LoginRequest represents the data needed to log in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a profile edit. Password is the account's
// current password, re-checked before any field is applied.
type UpdateProfileRequest struct {
	Password       string  `json:"password"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ImageURL       *string `json:"image_url"`
	HeaderImageURL *string `json:"header_image_url"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
}

// ProfileResponse is a user profile with the viewer's follow relationship.
type ProfileResponse struct {
	User        *User `json:"user"`
	IsFollowing bool  `json:"is_following"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrCredentialsTaken is returned when the username or email is already in
	// use. A single message on purpose: it must not reveal which field collided.
	ErrCredentialsTaken = errors.New("username and/or email already taken")

	// ErrInvalidCredentials is returned when login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidPassword is returned when the step-up password check before a
	// profile mutation fails. Distinct from ErrInvalidCredentials so callers can
	// tell a failed edit apart from a failed login.
	ErrInvalidPassword = errors.New("invalid password")

	// Signup/profile validation errors.
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)
