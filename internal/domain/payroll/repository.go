package payroll

import "context"

// SalaryStructureRepository stores one structure per employee.
type SalaryStructureRepository interface {
	// GetByEmployeeID returns ErrSalaryStructureNotFound when the employee has none
	GetByEmployeeID(ctx context.Context, employeeID string) (SalaryStructure, error)

	// Upsert replaces the employee's structure in place
	Upsert(ctx context.Context, structure SalaryStructure) (SalaryStructure, error)
}

// PayrollRepository stores payroll rows; (employee_id, month, year) is unique.
type PayrollRepository interface {
	GetByID(ctx context.Context, id string) (Payroll, error)

	// GetByEmployeePeriodForUpdate locks the employee's row for the period.
	// Returns ErrPayrollNotFound when there is none.
	GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (Payroll, error)

	// Upsert writes the row for (employee, month, year) in one statement.
	// Returns ErrPayrollAlreadyPaid when the existing row is PAID.
	Upsert(ctx context.Context, record Payroll) (Payroll, error)

	// ListByPeriod returns a month's rows with employee display data ordered by employee code
	ListByPeriod(ctx context.Context, month, year int) ([]Payroll, error)

	// ListByEmployee returns one employee's rows, newest period first
	ListByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)

	// MarkPaid moves a GENERATED row to PAID
	MarkPaid(ctx context.Context, id string) (Payroll, error)

	CountByPeriod(ctx context.Context, month, year int) (int, error)
}
