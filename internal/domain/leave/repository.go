package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository defines data access methods for leave requests.
type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound when missing
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate is GetByID with a row lock, used inside the review transaction
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// ListByEmployee returns one employee's requests, newest application first
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// ListAll returns every request with employee display data, newest application first
	ListAll(ctx context.Context) ([]LeaveRequest, error)

	// UpdateStatus records the review outcome
	UpdateStatus(ctx context.Context, id string, status RequestStatus, comments *string, reviewerID string, reviewedAt time.Time) (LeaveRequest, error)

	CountByStatus(ctx context.Context, status RequestStatus) (int, error)

	// ListApprovedByEmployeeSince returns approved requests starting on or after since
	ListApprovedByEmployeeSince(ctx context.Context, employeeID string, since time.Time) ([]LeaveRequest, error)
}
