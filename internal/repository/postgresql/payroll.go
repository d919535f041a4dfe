package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollSelect = `
	SELECT p.id, p.employee_id, p.month, p.year, p.base_wage, p.total_earnings, p.total_deductions,
		p.net_pay, p.provident_fund, p.professional_tax, p.loss_of_pay, p.payable_days, p.days_in_month,
		p.status, p.generated_at, p.paid_at,
		u.employee_code, u.first_name, u.last_name, u.department
	FROM payrolls p
	LEFT JOIN users u ON u.id = p.employee_id`

func scanPayroll(row rowScanner) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseWage, &p.TotalEarnings, &p.TotalDeductions,
		&p.NetPay, &p.ProvidentFund, &p.ProfessionalTax, &p.LossOfPay, &p.PayableDays, &p.DaysInMonth,
		&p.Status, &p.GeneratedAt, &p.PaidAt,
		&p.EmployeeCode, &p.FirstName, &p.LastName, &p.Department,
	)
	return p, err
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.get(ctx, payrollSelect+` WHERE p.id = $1`, id)
}

func (r *payrollRepository) GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	query := payrollSelect + `
		WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3
		FOR UPDATE OF p
	`
	return r.get(ctx, query, employeeID, month, year)
}

func (r *payrollRepository) get(ctx context.Context, query string, args ...any) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

// Upsert inserts the period row or overwrites a GENERATED one. A PAID row is
// left alone and reported as ErrPayrollAlreadyPaid.
func (r *payrollRepository) Upsert(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.Payroll{}, err
	}

	query := `
		INSERT INTO payrolls (
			id, employee_id, month, year, base_wage, total_earnings, total_deductions, net_pay,
			provident_fund, professional_tax, loss_of_pay, payable_days, days_in_month, status, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT ON CONSTRAINT payrolls_employee_period_key DO UPDATE SET
			base_wage = EXCLUDED.base_wage,
			total_earnings = EXCLUDED.total_earnings,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			provident_fund = EXCLUDED.provident_fund,
			professional_tax = EXCLUDED.professional_tax,
			loss_of_pay = EXCLUDED.loss_of_pay,
			payable_days = EXCLUDED.payable_days,
			days_in_month = EXCLUDED.days_in_month,
			generated_at = NOW()
		WHERE payrolls.status <> 'PAID'
		RETURNING id
	`

	var savedID string
	err = q.QueryRow(ctx, query,
		id, record.EmployeeID, record.Month, record.Year, record.BaseWage, record.TotalEarnings,
		record.TotalDeductions, record.NetPay, record.ProvidentFund, record.ProfessionalTax,
		record.LossOfPay, record.PayableDays, record.DaysInMonth, payroll.PayrollStatusGenerated,
	).Scan(&savedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return payroll.Payroll{}, payroll.ErrEmployeeNotFound
		}
		if isUniqueViolation(err, "") {
			return payroll.Payroll{}, payroll.ErrPayrollConflict
		}
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}
	return r.GetByID(ctx, savedID)
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Payroll, error) {
	query := payrollSelect + `
		WHERE p.month = $1 AND p.year = $2
		ORDER BY u.employee_code
	`
	return r.list(ctx, query, month, year)
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Payroll, error) {
	query := payrollSelect + `
		WHERE p.employee_id = $1
		ORDER BY p.year DESC, p.month DESC
	`
	return r.list(ctx, query, employeeID)
}

func (r *payrollRepository) list(ctx context.Context, query string, args ...any) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payrolls: %w", err)
	}
	return payrolls, nil
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $2, paid_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := q.Exec(ctx, query, id, payroll.PayrollStatusPaid, payroll.PayrollStatusGenerated)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to mark payroll paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return payroll.Payroll{}, err
		}
		if existing.IsPaid() {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
		}
		return payroll.Payroll{}, payroll.ErrPayrollConflict
	}
	return r.GetByID(ctx, id)
}

func (r *payrollRepository) CountByPeriod(ctx context.Context, month, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payrolls WHERE month = $1 AND year = $2`, month, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payrolls: %w", err)
	}
	return count, nil
}
