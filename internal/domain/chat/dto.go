package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

const (
	HistoryLimit     = 50
	MaxContentLength = 2000
)

type PostMessageRequest struct {
	SenderID string `json:"-"`
	Content  string `json:"content"`
}

func (r *PostMessageRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		errs.Add("content", ErrEmptyMessage.Error())
	} else if utf8.RuneCountInString(r.Content) > MaxContentLength {
		errs.Add("content", ErrMessageTooLong.Error())
	}

	return errs.Err()
}

type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName(),
		SenderRole: string(m.SenderRole),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}
