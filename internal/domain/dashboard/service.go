package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// AdminStats returns the overview cards, recomputed on every call
	AdminStats(ctx context.Context) (AdminStatsResponse, error)

	// EmployeeStats returns the caller's attendance summary for the current month
	EmployeeStats(ctx context.Context, employeeID string) (EmployeeStatsResponse, error)
}
