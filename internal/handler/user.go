package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"warbler/internal/httputil"
	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

// UserHandler serves profiles, search, profile edits and account deletion.
type UserHandler struct {
	userService    *service.UserService
	followService  *service.FollowService
	messageService *service.MessageService
}

func NewUserHandler(
	userService *service.UserService,
	followService *service.FollowService,
	messageService *service.MessageService,
) *UserHandler {
	return &UserHandler{
		userService:    userService,
		followService:  followService,
		messageService: messageService,
	}
}

// Search lists users, filtered by an optional case-sensitive substring
// GET /users?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("[ERROR] Search handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetProfile shows a user, with the viewer's follow relationship when the
// request carries an identity
// GET /users/{id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
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

	profile := model.ProfileResponse{User: user}
	if viewerID, ok := middleware.GetUserIDFromContext(r.Context()); ok && viewerID != userID {
		isFollowing, err := h.followService.IsFollowing(r.Context(), viewerID, userID)
		if err == nil {
			profile.IsFollowing = isFollowing
		}
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetMessages lists a user's newest messages
// GET /users/{id}/messages
func (h *UserHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if _, err := h.userService.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	messages, err := h.messageService.ListForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetMessages handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list messages")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// GetLikes lists the messages a user has liked
// GET /users/{id}/likes
func (h *UserHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if _, err := h.userService.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	messages, err := h.messageService.ListLiked(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetLikes handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list liked messages")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// UpdateProfile edits the caller's own profile after a password re-check
// PATCH /me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPassword):
			httputil.WriteForbidden(w, "Unable to update profile. Invalid password.")
		case errors.Is(err, model.ErrCredentialsTaken):
			httputil.WriteConflict(w, "Unable to update profile, new username/email already taken")
		case errors.Is(err, model.ErrUsernameRequired),
			errors.Is(err, model.ErrEmailRequired),
			errors.Is(err, model.ErrInvalidEmail):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			log.Printf("[ERROR] UpdateProfile handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// DeleteAccount deletes the caller's own account
// DELETE /me
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] DeleteAccount handler: %v", err)
		httputil.WriteInternalError(w, "Failed to delete account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Account deleted",
	})
}

// urlParamID parses a numeric chi URL parameter.
func urlParamID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
