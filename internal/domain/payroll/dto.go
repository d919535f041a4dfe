package payroll

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY STRUCTURE DTOs ==========

type SaveStructureRequest struct {
	EmployeeID string          `json:"employee_id"`
	GrossWage  decimal.Decimal `json:"gross_wage"`
}

func (r *SaveStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs.Add("employee_id", "is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if !r.GrossWage.IsPositive() {
		errs.Add("gross_wage", ErrInvalidGrossWage.Error())
	}

	return errs.Err()
}

type SalaryStructureResponse struct {
	ID                string          `json:"id,omitempty"`
	EmployeeID        string          `json:"employee_id"`
	GrossWage         decimal.Decimal `json:"gross_wage"`
	Basic             decimal.Decimal `json:"basic"`
	HRA               decimal.Decimal `json:"hra"`
	StandardAllowance decimal.Decimal `json:"standard_allowance"`
	PerformanceBonus  decimal.Decimal `json:"performance_bonus"`
	LTA               decimal.Decimal `json:"lta"`
	FixedAllowance    decimal.Decimal `json:"fixed_allowance"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	ProvidentFund     decimal.Decimal `json:"provident_fund"`
	ProfessionalTax   decimal.Decimal `json:"professional_tax"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	NetSalary         decimal.Decimal `json:"net_salary"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

func NewSalaryStructureResponse(s SalaryStructure) SalaryStructureResponse {
	resp := SalaryStructureResponse{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		GrossWage:         s.GrossWage,
		Basic:             s.Basic,
		HRA:               s.HRA,
		StandardAllowance: s.StandardAllowance,
		PerformanceBonus:  s.PerformanceBonus,
		LTA:               s.LTA,
		FixedAllowance:    s.FixedAllowance,
		TotalEarnings:     s.TotalEarnings(),
		ProvidentFund:     s.ProvidentFund,
		ProfessionalTax:   s.ProfessionalTax,
		TotalDeductions:   s.TotalDeductions(),
		NetSalary:         s.NetSalary,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// ========== PAYROLL RUN DTOs ==========

// PeriodRequest identifies a payroll month; Month is 0-indexed.
type PeriodRequest struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month == nil {
		errs.Add("month", "is required")
	} else if !validator.IsValidMonth(*r.Month) {
		errs.Add("month", "must be between 0 (January) and 11 (December)")
	}
	if r.Year == nil {
		errs.Add("year", "is required")
	} else if !validator.IsValidYear(*r.Year) {
		errs.Add("year", "must be between 2000 and 2100")
	}

	return errs.Err()
}

type OutcomeStatus string

const (
	OutcomeGenerated OutcomeStatus = "generated"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// EmployeeOutcome reports what a payroll run did for one employee.
type EmployeeOutcome struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeCode string           `json:"employee_code"`
	Name         string           `json:"name"`
	Status       OutcomeStatus    `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	Fallback     bool             `json:"fallback,omitempty"`
	PayableDays  int              `json:"payable_days"`
	DaysInMonth  int              `json:"days_in_month"`
	Payroll      *PayrollResponse `json:"payroll,omitempty"`
}

type RunResult struct {
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	DaysInMonth int               `json:"days_in_month"`
	Generated   int               `json:"generated"`
	Skipped     int               `json:"skipped"`
	Failed      int               `json:"failed"`
	Outcomes    []EmployeeOutcome `json:"outcomes"`
}

// ========== PAYROLL RECORD DTOs ==========

type PayrollResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	Name            *string         `json:"name,omitempty"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	BaseWage        decimal.Decimal `json:"base_wage"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	LossOfPay       decimal.Decimal `json:"loss_of_pay"`
	NetPay          decimal.Decimal `json:"net_pay"`
	PayableDays     int             `json:"payable_days"`
	DaysInMonth     int             `json:"days_in_month"`
	Status          PayrollStatus   `json:"status"`
	GeneratedAt     time.Time       `json:"generated_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeCode:    p.EmployeeCode,
		Month:           p.Month,
		Year:            p.Year,
		BaseWage:        p.BaseWage,
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		ProvidentFund:   p.ProvidentFund,
		ProfessionalTax: p.ProfessionalTax,
		LossOfPay:       p.LossOfPay,
		NetPay:          p.NetPay,
		PayableDays:     p.PayableDays,
		DaysInMonth:     p.DaysInMonth,
		Status:          p.Status,
		GeneratedAt:     p.GeneratedAt,
		PaidAt:          p.PaidAt,
	}
	if name := p.EmployeeName(); name != "" {
		resp.Name = &name
	}
	return resp
}

// EmployeeName joins the first and last name loaded with the row.
func (p Payroll) EmployeeName() string {
	var first, last string
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// ========== SIMULATOR DTOs ==========

type SimulateRequest struct {
	// GrossWage overrides the employee's structure when set.
	GrossWage       *decimal.Decimal `json:"gross_wage,omitempty"`
	ExtraUnpaidDays int              `json:"extra_unpaid_days"`
	ExtraPaidDays   int              `json:"extra_paid_days"`
}

func (r *SimulateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.GrossWage != nil && !r.GrossWage.IsPositive() {
		errs.Add("gross_wage", ErrInvalidGrossWage.Error())
	}
	if r.ExtraUnpaidDays < 0 || r.ExtraUnpaidDays > 31 {
		errs.Add("extra_unpaid_days", "must be between 0 and 31")
	}
	if r.ExtraPaidDays < 0 || r.ExtraPaidDays > 31 {
		errs.Add("extra_paid_days", "must be between 0 and 31")
	}

	return errs.Err()
}

// SimulatorBaseResponse is the caller's current-month starting point for the simulator.
type SimulatorBaseResponse struct {
	GrossWage         decimal.Decimal `json:"gross_wage"`
	Fallback          bool            `json:"fallback"`
	UnpaidLeavesTaken int             `json:"unpaid_leaves_taken"`
	PaidLeavesTaken   int             `json:"paid_leaves_taken"`
	DaysInMonth       int             `json:"days_in_month"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	MonthName         string          `json:"month_name"`
}

type SimulationResponse struct {
	GrossWage       decimal.Decimal `json:"gross_wage"`
	Basic           decimal.Decimal `json:"basic"`
	HRA             decimal.Decimal `json:"hra"`
	DA              decimal.Decimal `json:"da"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`
	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	LossOfPay       decimal.Decimal `json:"loss_of_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	UnpaidDays      int             `json:"unpaid_days"`
	PaidLeaveDays   int             `json:"paid_leave_days"`
	PayableDays     int             `json:"payable_days"`
	DaysInMonth     int             `json:"days_in_month"`
}
