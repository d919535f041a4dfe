package payroll

import (
	"fmt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Projection model rates. These are deliberately looser than the stored
// structure: basic 50%, HRA 20%, DA 10%, the rest as other allowances.
var (
	simBasicRate = decimal.RequireFromString("0.50")
	simHRARate   = decimal.RequireFromString("0.20")
	simDARate    = decimal.RequireFromString("0.10")
)

// SimulationInput is what the simulator needs for one projection.
type SimulationInput struct {
	GrossWage        decimal.Decimal
	ActualUnpaidDays int
	ActualPaidDays   int
	ExtraUnpaidDays  int
	ExtraPaidDays    int
	DaysInMonth      int
}

// Simulate projects the month's take-home pay. Amounts are whole currency units.
func Simulate(in SimulationInput) (payroll.SimulationResponse, error) {
	if !in.GrossWage.IsPositive() {
		return payroll.SimulationResponse{}, payroll.ErrInvalidGrossWage
	}
	if in.DaysInMonth <= 0 {
		return payroll.SimulationResponse{}, fmt.Errorf("%w: days in month is %d", payroll.ErrComputation, in.DaysInMonth)
	}

	gross := in.GrossWage
	basic := gross.Mul(simBasicRate).Round(0)
	hra := gross.Mul(simHRARate).Round(0)
	da := gross.Mul(simDARate).Round(0)
	other := gross.Sub(decimal.Sum(basic, hra, da))

	pf := basic.Mul(PFRateOfBasic).Round(0)
	baseNet := gross.Sub(pf).Sub(ProfessionalTax)

	unpaid := max(0, in.ActualUnpaidDays) + max(0, in.ExtraUnpaidDays)
	lop := baseNet.
		Mul(decimal.NewFromInt(int64(unpaid))).
		Div(decimal.NewFromInt(int64(in.DaysInMonth))).
		Round(0)
	// Loss of pay cannot exceed what would have been paid.
	lop = decimal.Min(lop, decimal.Max(decimal.Zero, baseNet))
	netPay := decimal.Max(decimal.Zero, baseNet.Sub(lop))

	return payroll.SimulationResponse{
		GrossWage:       gross,
		Basic:           basic,
		HRA:             hra,
		DA:              da,
		OtherAllowances: other,
		ProvidentFund:   pf,
		ProfessionalTax: ProfessionalTax,
		LossOfPay:       lop,
		TotalDeductions: decimal.Sum(pf, ProfessionalTax, lop),
		NetPay:          netPay,
		UnpaidDays:      unpaid,
		PaidLeaveDays:   max(0, in.ActualPaidDays) + max(0, in.ExtraPaidDays),
		PayableDays:     max(0, in.DaysInMonth-unpaid),
		DaysInMonth:     in.DaysInMonth,
	}, nil
}
