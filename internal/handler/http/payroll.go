package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Admin
	SaveStructure(w http.ResponseWriter, r *http.Request)
	GetStructure(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Employee
	MyHistory(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	SimulatorBase(w http.ResponseWriter, r *http.Request)
	Simulate(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// SaveStructure implements PayrollHandler.
func (p *payrollHandlerImpl) SaveStructure(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SaveStructure decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := p.payrollService.SaveStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary structure saved", saved)
}

// GetStructure implements PayrollHandler.
func (p *payrollHandlerImpl) GetStructure(w http.ResponseWriter, r *http.Request) {
	structure, err := p.payrollService.GetStructure(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, structure)
}

// Run implements PayrollHandler.
func (p *payrollHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req payroll.PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RunPayroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := p.payrollService.RunPayroll(r.Context(), req)
	if err != nil && len(result.Outcomes) > 0 {
		slog.Error("Payroll run interrupted",
			"error", err,
			"generated", result.Generated,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
		response.PartialFailure(w, "Payroll run interrupted", result)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll processed", result)
}

// List implements PayrollHandler.
func (p *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	records, err := p.payrollService.ListByPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// MarkPaid implements PayrollHandler.
func (p *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	paid, err := p.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll marked as paid", paid)
}

// Export implements PayrollHandler.
func (p *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := periodFromQuery(w, r)
	if !ok {
		return
	}

	doc, err := p.payrollService.ExportRegister(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, doc.ContentType, doc.Filename, doc.Content)
}

// MyHistory implements PayrollHandler.
func (p *payrollHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	records, err := p.payrollService.History(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Payslip implements PayrollHandler.
func (p *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	doc, err := p.payrollService.Payslip(r.Context(), claims.UserID, claims.Role == user.RoleAdmin, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, doc.ContentType, doc.Filename, doc.Content)
}

// SimulatorBase implements PayrollHandler.
func (p *payrollHandlerImpl) SimulatorBase(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	base, err := p.payrollService.SimulatorBase(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, base)
}

// Simulate implements PayrollHandler.
func (p *payrollHandlerImpl) Simulate(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req payroll.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Simulate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := p.payrollService.Simulate(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// periodFromQuery reads ?month=&year=, leaving range checks to the service.
func periodFromQuery(w http.ResponseWriter, r *http.Request) (payroll.PeriodRequest, bool) {
	var errs validator.ValidationErrors
	req := payroll.PeriodRequest{
		Month: queryInt(r, "month", &errs),
		Year:  queryInt(r, "year", &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return req, false
	}
	return req, true
}
