package chat

import "context"

type ChatService interface {
	List(ctx context.Context) ([]MessageResponse, error)
	Post(ctx context.Context, req PostMessageRequest) (MessageResponse, error)
}
