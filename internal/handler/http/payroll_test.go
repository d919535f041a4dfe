package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interruptedPayroll struct {
	payroll.PayrollService
	result payroll.RunResult
	err    error
}

func (s *interruptedPayroll) RunPayroll(ctx context.Context, req payroll.PeriodRequest) (payroll.RunResult, error) {
	return s.result, s.err
}

func runPayroll(t *testing.T, svc payroll.PayrollService) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/payroll/run", bytes.NewReader([]byte(`{"month":8,"year":2025}`)))
	rec := httptest.NewRecorder()
	NewPayrollHandler(svc).Run(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestPayrollRun_InterruptedKeepsOutcomes(t *testing.T) {
	svc := &interruptedPayroll{
		result: payroll.RunResult{
			Month:     8,
			Year:      2025,
			Generated: 1,
			Failed:    1,
			Outcomes: []payroll.EmployeeOutcome{
				{EmployeeID: "emp-1", Status: payroll.OutcomeGenerated},
				{EmployeeID: "emp-2", Status: payroll.OutcomeFailed, Reason: context.Canceled.Error()},
			},
		},
		err: context.Canceled,
	}

	rec, env := runPayroll(t, svc)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PARTIAL_FAILURE", env.Error.Code)

	var result payroll.RunResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "emp-2", result.Outcomes[1].EmployeeID)
}

func TestPayrollRun_ErrorWithoutOutcomes(t *testing.T) {
	rec, env := runPayroll(t, &interruptedPayroll{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.Empty(t, env.Data)
}
