// Package payslip renders a payroll row as a one-page PDF.
package payslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const ContentType = "application/pdf"

// Core PDF fonts have no rupee glyph.
const currency = "Rs."

type line struct {
	label  string
	amount decimal.Decimal
}

// Render builds the payslip. The earnings breakdown is only printed when the
// employee's salary structure is known.
func Render(p payroll.Payroll, structure *payroll.SalaryStructure) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Dayflow HR - Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	period := fmt.Sprintf("%s %d", time.Month(p.Month+1).String(), p.Year)
	info := [][2]string{
		{"Employee", valueOr(p.EmployeeName(), "-")},
		{"Employee Code", deref(p.EmployeeCode)},
		{"Department", deref(p.Department)},
		{"Pay Period", period},
		{"Payable Days", fmt.Sprintf("%d / %d", p.PayableDays, p.DaysInMonth)},
		{"Status", string(p.Status)},
	}
	for _, row := range info {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	var earnings []line
	if structure != nil {
		earnings = []line{
			{"Basic", structure.Basic},
			{"House Rent Allowance", structure.HRA},
			{"Standard Allowance", structure.StandardAllowance},
			{"Performance Bonus", structure.PerformanceBonus},
			{"Leave Travel Allowance", structure.LTA},
			{"Fixed Allowance", structure.FixedAllowance},
		}
	}
	earnings = append(earnings, line{"Gross Wage", p.BaseWage})

	deductions := []line{
		{"Provident Fund", p.ProvidentFund},
		{"Professional Tax", p.ProfessionalTax},
		{"Loss of Pay", p.LossOfPay},
	}

	section(pdf, "Earnings", earnings)
	section(pdf, "Deductions", deductions)

	pdf.SetFont("Helvetica", "B", 11)
	summary := []line{
		{"Total Earnings", p.TotalEarnings},
		{"Total Deductions", p.TotalDeductions},
		{"Net Pay", p.NetPay},
	}
	for _, l := range summary {
		amountRow(pdf, l)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 6, "This is a system generated payslip and does not require a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string, lines []line) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		amountRow(pdf, l)
	}
	pdf.Ln(3)
}

func amountRow(pdf *gofpdf.Fpdf, l line) {
	pdf.CellFormat(120, 7, l.label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, currency+" "+l.amount.StringFixed(2), "B", 1, "R", false, 0, "")
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
