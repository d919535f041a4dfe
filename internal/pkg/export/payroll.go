// Package export builds spreadsheet exports.
package export

import (
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const registerSheet = "Payroll"

var registerHeaders = []string{
	"Employee Code", "Name", "Department", "Payable Days", "Days In Month",
	"Gross Wage", "Provident Fund", "Professional Tax", "Loss Of Pay",
	"Total Deductions", "Total Earnings", "Net Pay", "Status",
}

// PayrollRegister writes one row per payroll record of a 0-indexed month,
// followed by a totals row for the money columns.
func PayrollRegister(month, year int, records []payroll.Payroll) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Payroll register %s %d", time.Month(month+1).String(), year)
	if err := f.SetCellValue(registerSheet, "A1", title); err != nil {
		return nil, err
	}

	for i, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, err
		}
	}

	totals := make([]decimal.Decimal, 7)
	row := 4
	for _, p := range records {
		money := []decimal.Decimal{
			p.BaseWage, p.ProvidentFund, p.ProfessionalTax, p.LossOfPay,
			p.TotalDeductions, p.TotalEarnings, p.NetPay,
		}
		values := []any{deref(p.EmployeeCode), p.EmployeeName(), deref(p.Department), p.PayableDays, p.DaysInMonth}
		for i, m := range money {
			values = append(values, m.InexactFloat64())
			totals[i] = totals[i].Add(m)
		}
		values = append(values, string(p.Status))

		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	summary := []any{"Total", fmt.Sprintf("%d employees", len(records)), "", "", ""}
	for _, t := range totals {
		summary = append(summary, t.InexactFloat64())
	}
	if err := setRow(f, row, summary); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(registerSheet, "A", "M", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(registerSheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
