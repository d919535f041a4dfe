package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.SalaryStructureRepository {
	return &salaryStructureRepository{db: db}
}

const salaryStructureColumns = `
	id, employee_id, gross_wage, basic, hra, standard_allowance, performance_bonus,
	lta, fixed_allowance, provident_fund, professional_tax, net_salary, created_at, updated_at`

func scanSalaryStructure(row rowScanner) (payroll.SalaryStructure, error) {
	var s payroll.SalaryStructure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.GrossWage, &s.Basic, &s.HRA, &s.StandardAllowance, &s.PerformanceBonus,
		&s.LTA, &s.FixedAllowance, &s.ProvidentFund, &s.ProfessionalTax, &s.NetSalary, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *salaryStructureRepository) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE employee_id = $1`

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}
	return s, nil
}

func (r *salaryStructureRepository) Upsert(ctx context.Context, structure payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.SalaryStructure{}, err
	}

	query := `
		INSERT INTO salary_structures (
			id, employee_id, gross_wage, basic, hra, standard_allowance, performance_bonus,
			lta, fixed_allowance, provident_fund, professional_tax, net_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (employee_id) DO UPDATE SET
			gross_wage = EXCLUDED.gross_wage,
			basic = EXCLUDED.basic,
			hra = EXCLUDED.hra,
			standard_allowance = EXCLUDED.standard_allowance,
			performance_bonus = EXCLUDED.performance_bonus,
			lta = EXCLUDED.lta,
			fixed_allowance = EXCLUDED.fixed_allowance,
			provident_fund = EXCLUDED.provident_fund,
			professional_tax = EXCLUDED.professional_tax,
			net_salary = EXCLUDED.net_salary,
			updated_at = NOW()
		RETURNING ` + salaryStructureColumns

	s, err := scanSalaryStructure(q.QueryRow(ctx, query,
		id, structure.EmployeeID, structure.GrossWage, structure.Basic, structure.HRA,
		structure.StandardAllowance, structure.PerformanceBonus, structure.LTA, structure.FixedAllowance,
		structure.ProvidentFund, structure.ProfessionalTax, structure.NetSalary,
	))
	if err != nil {
		return payroll.SalaryStructure{}, fmt.Errorf("failed to upsert salary structure: %w", err)
	}
	return s, nil
}
