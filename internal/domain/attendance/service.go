package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Today returns the caller's record for today, nil when there is none
	Today(ctx context.Context, employeeID string) (TodayResponse, error)

	// CheckIn opens today's record with status PRESENT
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut closes today's record
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// History lists one employee's records for a 0-indexed month together with their joining date
	History(ctx context.Context, query HistoryQuery) (HistoryResponse, error)

	// DailyOverview lists today's records across all employees (admin)
	DailyOverview(ctx context.Context) ([]DailyEntryResponse, error)
}
