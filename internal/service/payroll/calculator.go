package payroll

import (
	"fmt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Salary structure rates. StandardAllowance and ProfessionalTax are flat
// monthly amounts independent of the gross wage.
var (
	BasicRate            = decimal.RequireFromString("0.50")
	HRARateOfBasic       = decimal.RequireFromString("0.50")
	PerformanceBonusRate = decimal.RequireFromString("0.0833")
	LTARate              = decimal.RequireFromString("0.0833")
	PFRateOfBasic        = decimal.RequireFromString("0.12")
	StandardAllowance    = decimal.NewFromInt(4167)
	ProfessionalTax      = decimal.NewFromInt(200)
)

// moneyPlaces is the precision of every stored amount.
const moneyPlaces = 2

// CalculateStructure splits a monthly gross wage into its earnings and
// deduction components. FixedAllowance takes the remainder and is floored at
// zero. Below roughly 50000 the flat standard allowance pushes the allocated
// components past gross, so the earnings total no longer equals gross.
func CalculateStructure(employeeID string, gross decimal.Decimal) (payroll.SalaryStructure, error) {
	if !gross.IsPositive() {
		return payroll.SalaryStructure{}, payroll.ErrInvalidGrossWage
	}

	basic := gross.Mul(BasicRate).Round(moneyPlaces)
	hra := basic.Mul(HRARateOfBasic).Round(moneyPlaces)
	bonus := gross.Mul(PerformanceBonusRate).Round(moneyPlaces)
	lta := gross.Mul(LTARate).Round(moneyPlaces)
	pf := basic.Mul(PFRateOfBasic).Round(moneyPlaces)

	allocated := decimal.Sum(basic, hra, StandardAllowance, bonus, lta)
	fixed := decimal.Max(decimal.Zero, gross.Sub(allocated))

	s := payroll.SalaryStructure{
		EmployeeID:        employeeID,
		GrossWage:         gross,
		Basic:             basic,
		HRA:               hra,
		StandardAllowance: StandardAllowance,
		PerformanceBonus:  bonus,
		LTA:               lta,
		FixedAllowance:    fixed,
		ProvidentFund:     pf,
		ProfessionalTax:   ProfessionalTax,
	}
	s.NetSalary = s.TotalEarnings().Sub(s.TotalDeductions())
	return s, nil
}

// Settlement is the month's pay for one employee derived from a structure and
// the reconciled payable days.
type Settlement struct {
	NetPay          decimal.Decimal
	LossOfPay       decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalEarnings   decimal.Decimal
}

// Settle prorates the structure's net salary over the payable days. Loss of
// pay is reported inside TotalDeductions and TotalEarnings is rebuilt as
// NetPay + TotalDeductions.
func Settle(s payroll.SalaryStructure, days payroll.PayableDays) (Settlement, error) {
	if days.DaysInMonth <= 0 {
		return Settlement{}, fmt.Errorf("%w: days in month is %d", payroll.ErrComputation, days.DaysInMonth)
	}
	if days.PayableDays < 0 || days.PayableDays > days.DaysInMonth {
		return Settlement{}, fmt.Errorf("%w: payable days %d outside 0..%d", payroll.ErrComputation, days.PayableDays, days.DaysInMonth)
	}
	if s.NetSalary.IsNegative() {
		return Settlement{}, fmt.Errorf("%w: net salary %s is negative", payroll.ErrComputation, s.NetSalary)
	}

	// Multiply before dividing so whole-unit per-day rates stay exact.
	netPay := s.NetSalary.
		Mul(decimal.NewFromInt(int64(days.PayableDays))).
		Div(decimal.NewFromInt(int64(days.DaysInMonth))).
		Round(0)
	lop := s.NetSalary.Sub(netPay)
	deductions := decimal.Sum(s.ProvidentFund, s.ProfessionalTax, lop)

	return Settlement{
		NetPay:          netPay,
		LossOfPay:       lop,
		TotalDeductions: deductions,
		TotalEarnings:   netPay.Add(deductions),
	}, nil
}
