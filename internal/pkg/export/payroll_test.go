package export

import (
	"bytes"
	"testing"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

func TestPayrollRegister(t *testing.T) {
	records := []payroll.Payroll{
		{
			EmployeeCode:  strPtr("EMP0001"),
			FirstName:     strPtr("Asha"),
			LastName:      strPtr("Rao"),
			Department:    strPtr("Engineering"),
			PayableDays:   26,
			DaysInMonth:   30,
			BaseWage:      decimal.NewFromInt(50000),
			NetPay:        decimal.NewFromInt(40560),
			ProvidentFund: decimal.NewFromInt(3000),
			Status:        payroll.PayrollStatusGenerated,
		},
		{
			EmployeeCode: strPtr("EMP0002"),
			FirstName:    strPtr("Ravi"),
			PayableDays:  30,
			DaysInMonth:  30,
			BaseWage:     decimal.NewFromInt(30000),
			NetPay:       decimal.NewFromInt(26200),
			Status:       payroll.PayrollStatusPaid,
		},
	}

	content, err := PayrollRegister(5, 2025, records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	cell := func(name string) string {
		v, err := f.GetCellValue(registerSheet, name)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Payroll register June 2025", cell("A1"))
	assert.Equal(t, "Employee Code", cell("A3"))
	assert.Equal(t, "EMP0001", cell("A4"))
	assert.Equal(t, "Asha Rao", cell("B4"))
	assert.Equal(t, "Engineering", cell("C4"))
	assert.Equal(t, "GENERATED", cell("M4"))
	assert.Equal(t, "Ravi", cell("B5"))
	assert.Equal(t, "PAID", cell("M5"))
	assert.Equal(t, "Total", cell("A6"))
	assert.Equal(t, "2 employees", cell("B6"))
	assert.Equal(t, "80000", cell("F6"))
	assert.Equal(t, "66760", cell("L6"))
}

func TestPayrollRegister_Empty(t *testing.T) {
	content, err := PayrollRegister(0, 2025, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
