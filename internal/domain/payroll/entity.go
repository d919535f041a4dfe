package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure is the fixed monthly breakdown of one employee's gross wage.
// Earnings components sum to GrossWage unless FixedAllowance was floored at zero.
type SalaryStructure struct {
	ID                string
	EmployeeID        string
	GrossWage         decimal.Decimal
	Basic             decimal.Decimal
	HRA               decimal.Decimal
	StandardAllowance decimal.Decimal
	PerformanceBonus  decimal.Decimal
	LTA               decimal.Decimal
	FixedAllowance    decimal.Decimal
	ProvidentFund     decimal.Decimal
	ProfessionalTax   decimal.Decimal
	NetSalary         decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s SalaryStructure) TotalEarnings() decimal.Decimal {
	return decimal.Sum(s.Basic, s.HRA, s.StandardAllowance, s.PerformanceBonus, s.LTA, s.FixedAllowance)
}

func (s SalaryStructure) TotalDeductions() decimal.Decimal {
	return s.ProvidentFund.Add(s.ProfessionalTax)
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusGenerated PayrollStatus = "GENERATED"
	PayrollStatusPaid      PayrollStatus = "PAID"
)

// Payroll is the result of one payroll run for one employee and one month.
// Month is 0-indexed. TotalDeductions folds loss of pay in with the statutory
// deductions, and TotalEarnings = NetPay + TotalDeductions.
type Payroll struct {
	ID              string
	EmployeeID      string
	Month           int
	Year            int
	BaseWage        decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	ProvidentFund   decimal.Decimal
	ProfessionalTax decimal.Decimal
	LossOfPay       decimal.Decimal
	PayableDays     int
	DaysInMonth     int
	Status          PayrollStatus
	GeneratedAt     time.Time
	PaidAt          *time.Time

	// Joined fields
	EmployeeCode *string
	FirstName    *string
	LastName     *string
	Department   *string
}

func (p Payroll) IsPaid() bool {
	return p.Status == PayrollStatusPaid
}

// PayableDays is the reconciled attendance of one employee for one month.
type PayableDays struct {
	PayableDays    int
	DaysInMonth    int
	AttendanceDays int // records with a payable status
	SundayDays     int // Sundays credited without an attendance record
}

// MissingStructurePolicy decides what a payroll run does for an employee without a salary structure.
type MissingStructurePolicy string

const (
	// PolicyStrict skips the employee.
	PolicyStrict MissingStructurePolicy = "strict"
	// PolicyLenient computes a structure from the fallback gross wage.
	PolicyLenient MissingStructurePolicy = "lenient"
)

func (p MissingStructurePolicy) IsValid() bool {
	return p == PolicyStrict || p == PolicyLenient
}
