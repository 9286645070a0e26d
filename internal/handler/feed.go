package handler

import (
	"log"
	"net/http"

	"warbler/internal/httputil"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed returns the home feed for the authenticated user: the 100 newest
// messages from the user and everyone they follow.
// GET /feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messages, err := h.feedService.HomeTimeline(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetFeed handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
