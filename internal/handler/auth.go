package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"warbler/internal/httputil"
	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

// AuthHandler groups signup/login/session endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Register handles user signup
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCredentialsTaken):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUsernameRequired),
			errors.Is(err, model.ErrEmailRequired),
			errors.Is(err, model.ErrInvalidEmail),
			errors.Is(err, model.ErrPasswordTooShort):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	// Log the new user straight in, as the signup flow does.
	tokenPair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	tokenPair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

// Refresh rotates a refresh token
// POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	tokenPair, _, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenNotFound):
			httputil.WriteUnauthorized(w, "Invalid refresh token")
		case errors.Is(err, model.ErrRefreshTokenExpired):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, model.ErrRefreshTokenReused):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token reuse detected. Please login again.")
		default:
			httputil.WriteInternalError(w, "Failed to refresh tokens")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenPair)
}

// Logout revokes the presented refresh token
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken)
	if err != nil && !errors.Is(err, model.ErrRefreshTokenNotFound) {
		httputil.WriteInternalError(w, "Failed to logout")
		return
	}

	// An already-revoked or unknown token still counts as logged out.
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// LogoutAll revokes every refresh token for the caller
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.authService.RevokeAllUserTokens(r.Context(), userID); err != nil {
		httputil.WriteInternalError(w, "Failed to logout from all devices")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out from all devices",
	})
}

// Me returns the currently authenticated user
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
