package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	tx             database.TxManager
	leaveRepo      leave.LeaveRequestRepository
	attendanceRepo attendance.AttendanceRepository
	now            func() time.Time
}

func NewLeaveService(
	tx database.TxManager,
	leaveRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:             tx,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, end := req.Dates()

	created, err := l.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted", "request_id", created.ID, "employee_id", req.EmployeeID, "days", created.Days())
	return leave.NewLeaveRequestResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMine(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.leaveRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// ListAll implements leave.LeaveService.
func (l *LeaveServiceImpl) ListAll(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.leaveRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses
}

// Review implements leave.LeaveService. Approving an already approved request
// marks the range again and succeeds; every other move out of a terminal
// state is rejected.
func (l *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	var reviewed leave.LeaveRequest
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := l.leaveRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		switch {
		case current.IsPending():
			reviewed, err = l.leaveRepo.UpdateStatus(ctx, current.ID, req.Status, req.Comments, req.ReviewerID, l.now())
			if err != nil {
				return err
			}
		case current.Status == leave.StatusApproved && req.Status == leave.StatusApproved:
			reviewed = current
		default:
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if reviewed.Status != leave.StatusApproved {
			return nil
		}
		return l.markLeaveDays(ctx, reviewed)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request reviewed",
		"request_id", reviewed.ID,
		"employee_id", reviewed.EmployeeID,
		"status", reviewed.Status,
		"reviewer_id", req.ReviewerID,
	)
	return leave.NewLeaveRequestResponse(reviewed), nil
}

// markLeaveDays sets every date of the request to LEAVE, keeping check-in and
// check-out of days that already have a record.
func (l *LeaveServiceImpl) markLeaveDays(ctx context.Context, req leave.LeaveRequest) error {
	for _, date := range utils.DatesBetween(req.StartDate, req.EndDate) {
		if err := l.attendanceRepo.MarkLeave(ctx, req.EmployeeID, date); err != nil {
			return fmt.Errorf("failed to mark leave for request %s: %w", req.ID, err)
		}
	}
	return nil
}
