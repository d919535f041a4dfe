package payroll

import "errors"

var (
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollAlreadyPaid      = errors.New("payroll record already paid, cannot modify")
	ErrPayrollConflict         = errors.New("conflicting payroll record for this period")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrNotAnEmployee           = errors.New("only employees have a salary structure")
	ErrInvalidGrossWage        = errors.New("gross wage must be greater than zero")
	ErrPayslipForbidden        = errors.New("payslip belongs to another employee")

	// ErrComputation flags arithmetic that would produce a negative or undefined amount.
	ErrComputation = errors.New("payroll computation error")
)
