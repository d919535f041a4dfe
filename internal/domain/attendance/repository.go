package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// (employee_id, date) is unique.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when the day has no record
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// CreateCheckIn inserts a PRESENT record; returns ErrAlreadyCheckedIn if the day already has one
	CreateCheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (Attendance, error)

	// SetCheckOut stamps check_out on a record that has none yet
	SetCheckOut(ctx context.Context, id string, at time.Time) (Attendance, error)

	// MarkLeave sets the day's status to LEAVE, creating the record if needed.
	// Check-in and check-out of an existing record are kept.
	MarkLeave(ctx context.Context, employeeID string, date time.Time) error

	// ListByEmployeeAndRange returns records with from <= date <= to ordered by date
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// ListByDate returns every record of one day with employee display data, latest check-in first
	ListByDate(ctx context.Context, date time.Time) ([]EmployeeAttendance, error)

	// ListEmployeeRecordsByRange returns EMPLOYEE-role records with from <= date <= to
	ListEmployeeRecordsByRange(ctx context.Context, from, to time.Time) ([]EmployeeAttendance, error)

	CountByDateAndStatus(ctx context.Context, date time.Time, status Status) (int, error)
}
