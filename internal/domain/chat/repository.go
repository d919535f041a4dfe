package chat

import "context"

type MessageRepository interface {
	Create(ctx context.Context, msg Message) (Message, error)

	// ListRecent returns the latest limit messages in ascending time order
	ListRecent(ctx context.Context, limit int) ([]Message, error)
}
