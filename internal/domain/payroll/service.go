package payroll

import (
	"context"
)

// PayrollService covers salary structures, payroll runs, payslips and the simulator.
type PayrollService interface {
	// Salary structures (admin)
	SaveStructure(ctx context.Context, req SaveStructureRequest) (SalaryStructureResponse, error)
	GetStructure(ctx context.Context, employeeID string) (SalaryStructureResponse, error)

	// RunPayroll computes and stores the month's payroll for every employee.
	// A per-employee failure is reported in the result, not returned as error.
	RunPayroll(ctx context.Context, req PeriodRequest) (RunResult, error)

	// Payroll records
	ListByPeriod(ctx context.Context, req PeriodRequest) ([]PayrollResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)
	History(ctx context.Context, employeeID string) ([]PayrollResponse, error)

	// Documents
	Payslip(ctx context.Context, requesterID string, isAdmin bool, payrollID string) (Document, error)
	ExportRegister(ctx context.Context, req PeriodRequest) (Document, error)

	// Simulator, never persisted
	SimulatorBase(ctx context.Context, employeeID string) (SimulatorBaseResponse, error)
	Simulate(ctx context.Context, employeeID string, req SimulateRequest) (SimulationResponse, error)
}

// Document is a generated file ready to be streamed to the client.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
