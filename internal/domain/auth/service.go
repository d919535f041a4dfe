package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	UpdatePassword(ctx context.Context, userID string, req UpdatePasswordRequest) error
	Me(ctx context.Context, userID string) (SessionUser, error)
}
