package payslip

import (
	"bytes"
	"testing"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	code := "EMP0001"
	p := payroll.Payroll{
		EmployeeCode:    &code,
		Month:           5,
		Year:            2025,
		BaseWage:        decimal.NewFromInt(50000),
		TotalEarnings:   decimal.NewFromInt(50000),
		TotalDeductions: decimal.NewFromInt(9440),
		NetPay:          decimal.NewFromInt(40560),
		ProvidentFund:   decimal.NewFromInt(3000),
		ProfessionalTax: decimal.NewFromInt(200),
		LossOfPay:       decimal.NewFromInt(6240),
		PayableDays:     26,
		DaysInMonth:     30,
		Status:          payroll.PayrollStatusGenerated,
	}

	withoutStructure, err := Render(p, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(withoutStructure, []byte("%PDF")))

	structure := payroll.SalaryStructure{
		Basic:             decimal.NewFromInt(25000),
		HRA:               decimal.NewFromInt(12500),
		StandardAllowance: decimal.NewFromInt(4167),
		PerformanceBonus:  decimal.NewFromInt(4165),
		LTA:               decimal.NewFromInt(4165),
		FixedAllowance:    decimal.NewFromInt(3),
	}
	withStructure, err := Render(p, &structure)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(withStructure, []byte("%PDF")))
}
