package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/chat"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
)

type ChatHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Post(w http.ResponseWriter, r *http.Request)
}

type chatHandlerImpl struct {
	chatService chat.ChatService
}

func NewChatHandler(chatService chat.ChatService) ChatHandler {
	return &chatHandlerImpl{chatService: chatService}
}

// List implements ChatHandler.
func (c *chatHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	messages, err := c.chatService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, messages)
}

// Post implements ChatHandler.
func (c *chatHandlerImpl) Post(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req chat.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PostMessage decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SenderID = claims.UserID

	msg, err := c.chatService.Post(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Message sent", msg)
}
