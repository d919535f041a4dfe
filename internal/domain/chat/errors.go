package chat

import "errors"

var (
	ErrEmptyMessage   = errors.New("message content is required")
	ErrMessageTooLong = errors.New("message content is too long")
)
