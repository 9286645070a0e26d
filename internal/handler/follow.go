package handler

import (
	"errors"
	"log"
	"net/http"

	"warbler/internal/httputil"
	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Follow makes the caller follow the target user. Re-following is a no-op
// success.
// POST /users/{id}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followeeID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, followeeID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Follow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully followed user",
	})
}

// Unfollow removes the caller's follow edge to the target user.
// DELETE /users/{id}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followeeID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, followeeID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Unfollow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully unfollowed user",
	})
}

// GetFollowers lists the users following {id}
// GET /users/{id}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	users, err := h.followService.GetFollowers(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetFollowers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetFollowing lists the users that {id} follows
// GET /users/{id}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	users, err := h.followService.GetFollowing(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
