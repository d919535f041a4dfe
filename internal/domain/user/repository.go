package user

import (
	"context"
	"time"
)

// UpdateProfileParams carries the profile columns to change. Nil fields are left untouched.
type UpdateProfileParams struct {
	UserID     string
	FirstName  *string
	LastName   *string
	JobTitle   *string
	Department *string
	Phone      *string
	Address    *string
	ProfilePic *string
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// GetByLoginID finds a user whose email or employee code equals loginID.
	GetByLoginID(ctx context.Context, loginID string) (User, error)
	// ListByRole returns users of the given role, newest first.
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string, firstLogin bool) error
	Delete(ctx context.Context, id string) error
	// NextEmployeeSequence returns the next number used to build employee codes.
	NextEmployeeSequence(ctx context.Context) (int64, error)
	CountActiveByRole(ctx context.Context, role Role) (int, error)
	CountJoinedSince(ctx context.Context, role Role, since time.Time) (int, error)
}
