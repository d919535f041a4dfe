package chat

import (
	"context"
	"log/slog"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/chat"
)

type ChatServiceImpl struct {
	messageRepo chat.MessageRepository
}

func NewChatService(messageRepo chat.MessageRepository) chat.ChatService {
	return &ChatServiceImpl{messageRepo: messageRepo}
}

// List implements chat.ChatService.
func (c *ChatServiceImpl) List(ctx context.Context) ([]chat.MessageResponse, error) {
	messages, err := c.messageRepo.ListRecent(ctx, chat.HistoryLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]chat.MessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, chat.NewMessageResponse(m))
	}
	return resp, nil
}

// Post implements chat.ChatService.
func (c *ChatServiceImpl) Post(ctx context.Context, req chat.PostMessageRequest) (chat.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return chat.MessageResponse{}, err
	}

	msg, err := c.messageRepo.Create(ctx, chat.Message{
		SenderID: req.SenderID,
		Content:  req.Content,
	})
	if err != nil {
		return chat.MessageResponse{}, err
	}

	slog.Debug("Chat message posted", "message_id", msg.ID, "sender_id", msg.SenderID)
	return chat.NewMessageResponse(msg), nil
}
