package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/export"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/payslip"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Options are the payroll policy settings.
type Options struct {
	MissingStructurePolicy payroll.MissingStructurePolicy
	FallbackGrossWage      decimal.Decimal
	Workers                int
	Location               *time.Location
	// Now is replaced in tests.
	Now func() time.Time
}

type PayrollServiceImpl struct {
	tx             database.TxManager
	userRepo       user.UserRepository
	structureRepo  payroll.SalaryStructureRepository
	payrollRepo    payroll.PayrollRepository
	attendanceRepo attendance.AttendanceRepository
	reconciler     *Reconciler
	opts           Options
}

func NewPayrollService(
	tx database.TxManager,
	userRepo user.UserRepository,
	structureRepo payroll.SalaryStructureRepository,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	reconciler *Reconciler,
	opts Options,
) payroll.PayrollService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PayrollServiceImpl{
		tx:             tx,
		userRepo:       userRepo,
		structureRepo:  structureRepo,
		payrollRepo:    payrollRepo,
		attendanceRepo: attendanceRepo,
		reconciler:     reconciler,
		opts:           opts,
	}
}

// ========== SALARY STRUCTURE ==========

func (s *PayrollServiceImpl) SaveStructure(ctx context.Context, req payroll.SaveStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	if _, err := s.employee(ctx, req.EmployeeID); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	structure, err := CalculateStructure(req.EmployeeID, req.GrossWage)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	saved, err := s.structureRepo.Upsert(ctx, structure)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	slog.Info("Salary structure saved", "employee_id", req.EmployeeID, "gross_wage", saved.GrossWage.String())
	return payroll.NewSalaryStructureResponse(saved), nil
}

func (s *PayrollServiceImpl) GetStructure(ctx context.Context, employeeID string) (payroll.SalaryStructureResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return payroll.SalaryStructureResponse{}, validator.ValidationErrors{{Field: "employee_id", Message: "must be a valid UUID"}}
	}

	structure, err := s.structureRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}
	return payroll.NewSalaryStructureResponse(structure), nil
}

// employee loads a user and checks it is on payroll.
func (s *PayrollServiceImpl) employee(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, payroll.ErrEmployeeNotFound
		}
		return user.User{}, err
	}
	if u.Role != user.RoleEmployee {
		return user.User{}, payroll.ErrNotAnEmployee
	}
	return u, nil
}

// ========== PAYROLL RUN ==========

func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, req payroll.PeriodRequest) (payroll.RunResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResult{}, err
	}
	month, year := *req.Month, *req.Year

	employees, err := s.userRepo.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return payroll.RunResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	started := time.Now()
	result := payroll.RunResult{
		Month:       month,
		Year:        year,
		DaysInMonth: utils.DaysInMonth(month, year),
		Outcomes:    make([]payroll.EmployeeOutcome, len(employees)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, emp := range employees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				result.Outcomes[i] = outcomeFor(emp, payroll.OutcomeFailed, err.Error())
				return err
			}
			result.Outcomes[i] = s.processEmployee(gctx, emp, month, year)
			return nil
		})
	}
	runErr := g.Wait()

	for _, o := range result.Outcomes {
		switch o.Status {
		case payroll.OutcomeGenerated:
			result.Generated++
		case payroll.OutcomeSkipped:
			result.Skipped++
		case payroll.OutcomeFailed:
			result.Failed++
		}
	}

	slog.Info("Payroll run finished",
		"month", month,
		"year", year,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", time.Since(started),
	)

	if runErr != nil {
		return result, fmt.Errorf("payroll run for %d-%02d interrupted: %w", year, month+1, runErr)
	}
	return result, nil
}

func outcomeFor(emp user.User, status payroll.OutcomeStatus, reason string) payroll.EmployeeOutcome {
	return payroll.EmployeeOutcome{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.DisplayName(),
		Status:       status,
		Reason:       reason,
	}
}

// processEmployee computes and stores one employee's payroll. Errors end up
// in the outcome so the rest of the run carries on.
func (s *PayrollServiceImpl) processEmployee(ctx context.Context, emp user.User, month, year int) payroll.EmployeeOutcome {
	log := slog.With("employee_id", emp.ID, "month", month, "year", year)

	structure, fallback, err := s.resolveStructure(ctx, emp.ID)
	if err != nil {
		if errors.Is(err, payroll.ErrSalaryStructureNotFound) {
			return outcomeFor(emp, payroll.OutcomeSkipped, "no salary structure")
		}
		log.Error("Failed to load salary structure", "error", err)
		return outcomeFor(emp, payroll.OutcomeFailed, err.Error())
	}

	days, err := s.reconciler.PayableDays(ctx, emp.ID, month, year)
	if err != nil {
		log.Error("Failed to reconcile attendance", "error", err)
		return outcomeFor(emp, payroll.OutcomeFailed, err.Error())
	}

	settlement, err := Settle(structure, days)
	if err != nil {
		log.Error("Payroll computation failed", "error", err)
		return outcomeFor(emp, payroll.OutcomeFailed, err.Error())
	}

	record := payroll.Payroll{
		EmployeeID:      emp.ID,
		Month:           month,
		Year:            year,
		BaseWage:        structure.GrossWage,
		TotalEarnings:   settlement.TotalEarnings,
		TotalDeductions: settlement.TotalDeductions,
		NetPay:          settlement.NetPay,
		ProvidentFund:   structure.ProvidentFund,
		ProfessionalTax: structure.ProfessionalTax,
		LossOfPay:       settlement.LossOfPay,
		PayableDays:     days.PayableDays,
		DaysInMonth:     days.DaysInMonth,
		Status:          payroll.PayrollStatusGenerated,
	}

	var saved payroll.Payroll
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.GetByEmployeePeriodForUpdate(ctx, emp.ID, month, year)
		switch {
		case err == nil && existing.IsPaid():
			return payroll.ErrPayrollAlreadyPaid
		case err != nil && !errors.Is(err, payroll.ErrPayrollNotFound):
			return err
		}
		saved, err = s.payrollRepo.Upsert(ctx, record)
		return err
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollAlreadyPaid) {
			return outcomeFor(emp, payroll.OutcomeSkipped, "already paid")
		}
		log.Error("Failed to save payroll", "error", err)
		return outcomeFor(emp, payroll.OutcomeFailed, err.Error())
	}

	out := outcomeFor(emp, payroll.OutcomeGenerated, "")
	out.Fallback = fallback
	out.PayableDays = days.PayableDays
	out.DaysInMonth = days.DaysInMonth
	resp := payroll.NewPayrollResponse(saved)
	out.Payroll = &resp
	return out
}

// resolveStructure returns the employee's structure, or under the lenient
// policy one computed from the fallback wage.
func (s *PayrollServiceImpl) resolveStructure(ctx context.Context, employeeID string) (payroll.SalaryStructure, bool, error) {
	structure, err := s.structureRepo.GetByEmployeeID(ctx, employeeID)
	if err == nil {
		return structure, false, nil
	}
	if !errors.Is(err, payroll.ErrSalaryStructureNotFound) || s.opts.MissingStructurePolicy != payroll.PolicyLenient {
		return payroll.SalaryStructure{}, false, err
	}

	structure, err = CalculateStructure(employeeID, s.opts.FallbackGrossWage)
	if err != nil {
		return payroll.SalaryStructure{}, false, err
	}
	return structure, true, nil
}

// ========== PAYROLL RECORDS ==========

func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, req payroll.PeriodRequest) ([]payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.ListByPeriod(ctx, *req.Month, *req.Year)
	if err != nil {
		return nil, err
	}
	return toPayrollResponses(records), nil
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollResponse{}, payroll.ErrPayrollNotFound
	}

	paid, err := s.payrollRepo.MarkPaid(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	slog.Info("Payroll marked paid", "payroll_id", id, "employee_id", paid.EmployeeID)
	return payroll.NewPayrollResponse(paid), nil
}

func (s *PayrollServiceImpl) History(ctx context.Context, employeeID string) ([]payroll.PayrollResponse, error) {
	records, err := s.payrollRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toPayrollResponses(records), nil
}

func toPayrollResponses(records []payroll.Payroll) []payroll.PayrollResponse {
	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, p := range records {
		responses = append(responses, payroll.NewPayrollResponse(p))
	}
	return responses
}

// ========== DOCUMENTS ==========

func (s *PayrollServiceImpl) Payslip(ctx context.Context, requesterID string, isAdmin bool, payrollID string) (payroll.Document, error) {
	if !validator.IsValidUUID(payrollID) {
		return payroll.Document{}, payroll.ErrPayrollNotFound
	}

	record, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.Document{}, err
	}
	if !isAdmin && record.EmployeeID != requesterID {
		return payroll.Document{}, payroll.ErrPayslipForbidden
	}

	var structure *payroll.SalaryStructure
	if st, err := s.structureRepo.GetByEmployeeID(ctx, record.EmployeeID); err == nil {
		structure = &st
	} else if !errors.Is(err, payroll.ErrSalaryStructureNotFound) {
		return payroll.Document{}, err
	}

	content, err := payslip.Render(record, structure)
	if err != nil {
		return payroll.Document{}, fmt.Errorf("failed to render payslip: %w", err)
	}

	code := record.EmployeeID
	if record.EmployeeCode != nil {
		code = *record.EmployeeCode
	}
	return payroll.Document{
		Filename:    fmt.Sprintf("payslip-%s-%d-%02d.pdf", code, record.Year, record.Month+1),
		ContentType: payslip.ContentType,
		Content:     content,
	}, nil
}

func (s *PayrollServiceImpl) ExportRegister(ctx context.Context, req payroll.PeriodRequest) (payroll.Document, error) {
	if err := req.Validate(); err != nil {
		return payroll.Document{}, err
	}
	month, year := *req.Month, *req.Year

	records, err := s.payrollRepo.ListByPeriod(ctx, month, year)
	if err != nil {
		return payroll.Document{}, err
	}

	content, err := export.PayrollRegister(month, year, records)
	if err != nil {
		return payroll.Document{}, fmt.Errorf("failed to build payroll register: %w", err)
	}

	return payroll.Document{
		Filename:    fmt.Sprintf("payroll-register-%d-%02d.xlsx", year, month+1),
		ContentType: export.ContentType,
		Content:     content,
	}, nil
}

// ========== SIMULATOR ==========

func (s *PayrollServiceImpl) SimulatorBase(ctx context.Context, employeeID string) (payroll.SimulatorBaseResponse, error) {
	month, year := s.currentPeriod()

	structure, fallback, err := s.resolveStructure(ctx, employeeID)
	if err != nil {
		return payroll.SimulatorBaseResponse{}, err
	}

	unpaid, paid, err := s.leaveCounts(ctx, employeeID, month, year)
	if err != nil {
		return payroll.SimulatorBaseResponse{}, err
	}

	return payroll.SimulatorBaseResponse{
		GrossWage:         structure.GrossWage,
		Fallback:          fallback,
		UnpaidLeavesTaken: unpaid,
		PaidLeavesTaken:   paid,
		DaysInMonth:       utils.DaysInMonth(month, year),
		Month:             month,
		Year:              year,
		MonthName:         time.Month(month + 1).String(),
	}, nil
}

// Simulate projects the caller's current month. A gross wage in the request
// overrides the stored structure.
func (s *PayrollServiceImpl) Simulate(ctx context.Context, employeeID string, req payroll.SimulateRequest) (payroll.SimulationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SimulationResponse{}, err
	}
	month, year := s.currentPeriod()

	var gross decimal.Decimal
	if req.GrossWage != nil {
		gross = *req.GrossWage
	} else {
		structure, _, err := s.resolveStructure(ctx, employeeID)
		if err != nil {
			return payroll.SimulationResponse{}, err
		}
		gross = structure.GrossWage
	}

	unpaid, paid, err := s.leaveCounts(ctx, employeeID, month, year)
	if err != nil {
		return payroll.SimulationResponse{}, err
	}

	return Simulate(SimulationInput{
		GrossWage:        gross,
		ActualUnpaidDays: unpaid,
		ActualPaidDays:   paid,
		ExtraUnpaidDays:  req.ExtraUnpaidDays,
		ExtraPaidDays:    req.ExtraPaidDays,
		DaysInMonth:      utils.DaysInMonth(month, year),
	})
}

func (s *PayrollServiceImpl) currentPeriod() (month, year int) {
	now := s.opts.Now().In(s.opts.Location)
	return utils.MonthIndex(now.Month()), now.Year()
}

// leaveCounts counts the month's ABSENT days as unpaid and LEAVE days as paid.
func (s *PayrollServiceImpl) leaveCounts(ctx context.Context, employeeID string, month, year int) (unpaid, paid int, err error) {
	first, last := utils.MonthRange(month, year)

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, first, last)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusAbsent:
			unpaid++
		case attendance.StatusLeave:
			paid++
		}
	}
	return unpaid, paid, nil
}
