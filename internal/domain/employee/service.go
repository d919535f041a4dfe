package employee

import (
	"context"
)

// EmployeeService defines business logic for employee records and profiles.
type EmployeeService interface {
	// CreateEmployee registers a new employee with a generated code and temporary password (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)

	// ListEmployees lists every EMPLOYEE-role user, newest first (admin only)
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)

	// UpdateEmployee updates job and contact details (admin only)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee hard-deletes an employee and everything they own (admin only)
	DeleteEmployee(ctx context.Context, id string) error

	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)

	// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
	EnsureAdmin(ctx context.Context, email, code, password string) error
}
