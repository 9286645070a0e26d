package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"warbler/internal/httputil"
	"warbler/internal/model"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
	likeService    *service.LikeService
}

func NewMessageHandler(messageService *service.MessageService, likeService *service.LikeService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		likeService:    likeService,
	}
}

// Create posts a new message owned by the caller
// POST /messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	message, err := h.messageService.Post(r.Context(), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTextRequired), errors.Is(err, model.ErrTextTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Create message handler: %v", err)
			httputil.WriteInternalError(w, "Failed to post message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, message)
}

// GetByID shows a single message
// GET /messages/{id}
func (h *MessageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	messageID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	message, err := h.messageService.GetByID(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, model.ErrMessageNotFound) {
			httputil.WriteNotFound(w, "Message not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get message")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, message)
}

// Delete removes one of the caller's own messages
// DELETE /messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	if err := h.messageService.Delete(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			httputil.WriteNotFound(w, "Message not found")
		case errors.Is(err, model.ErrNotMessageOwner):
			httputil.WriteForbidden(w, "You can only delete a message that you've created")
		default:
			log.Printf("[ERROR] Delete message handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Message deleted",
	})
}

// ToggleLike flips the caller's like on a message
// POST /messages/{id}/like
func (h *MessageHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := urlParamID(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	liked, err := h.likeService.Toggle(r.Context(), userID, messageID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			httputil.WriteNotFound(w, "Message not found")
		case errors.Is(err, model.ErrCannotLikeOwn):
			httputil.WriteForbidden(w, "You can't like a message you created")
		default:
			log.Printf("[ERROR] ToggleLike handler: %v", err)
			httputil.WriteInternalError(w, "Failed to toggle like")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LikeResponse{
		MessageID: messageID,
		Liked:     liked,
	})
}
