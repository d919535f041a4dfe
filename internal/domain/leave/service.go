package leave

import (
	"context"
)

type LeaveService interface {
	// Apply files a PENDING request for the caller
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveRequestResponse, error)

	// ListMine lists the caller's requests
	ListMine(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)

	// ListAll lists every request (admin)
	ListAll(ctx context.Context) ([]LeaveRequestResponse, error)

	// Review approves or rejects a request (admin). Approval marks every day
	// of the range as LEAVE in attendance within the same transaction.
	Review(ctx context.Context, req ReviewLeaveRequest) (LeaveRequestResponse, error)
}
