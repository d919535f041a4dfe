package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hr/dayflow-backend/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users      *servicetest.Users
	attendance *servicetest.Attendance
	structures *servicetest.Structures
	payrolls   *servicetest.Payrolls
	tx         *servicetest.Tx
	svc        payroll.PayrollService
}

func newFixture(t *testing.T, policy payroll.MissingStructurePolicy) *fixture {
	t.Helper()
	f := &fixture{
		users:      servicetest.NewUsers(),
		structures: servicetest.NewStructures(),
		tx:         &servicetest.Tx{},
	}
	f.attendance = servicetest.NewAttendance(f.users)
	f.payrolls = servicetest.NewPayrolls(f.users)
	f.svc = NewPayrollService(
		f.tx,
		f.users,
		f.structures,
		f.payrolls,
		f.attendance,
		NewReconciler(f.attendance, defaultPayable),
		Options{
			MissingStructurePolicy: policy,
			FallbackGrossWage:      dec("50000"),
			Workers:                3,
			Location:               time.UTC,
			Now:                    func() time.Time { return time.Date(sepYear, time.September, 10, 9, 0, 0, 0, time.UTC) },
		},
	)
	return f
}

func (f *fixture) addEmployee(t *testing.T, code, first string) user.User {
	t.Helper()
	return f.users.Add(user.User{
		EmployeeCode: code,
		Email:        code + "@dayflow.com",
		Role:         user.RoleEmployee,
		IsActive:     true,
		Profile:      user.Profile{FirstName: first, LastName: "Test"},
	})
}

func (f *fixture) saveStructure(t *testing.T, employeeID, gross string) {
	t.Helper()
	_, err := f.svc.SaveStructure(context.Background(), payroll.SaveStructureRequest{EmployeeID: employeeID, GrossWage: dec(gross)})
	require.NoError(t, err)
}

func period(month, year int) payroll.PeriodRequest {
	return payroll.PeriodRequest{Month: &month, Year: &year}
}

func outcomeOf(t *testing.T, result payroll.RunResult, employeeID string) payroll.EmployeeOutcome {
	t.Helper()
	for _, o := range result.Outcomes {
		if o.EmployeeID == employeeID {
			return o
		}
	}
	t.Fatalf("no outcome for %s", employeeID)
	return payroll.EmployeeOutcome{}
}

func TestRunPayroll_ProratesNetSalary(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")
	for _, rec := range weekdayRecords(emp.ID, sepMonth, sepYear, 22) {
		f.attendance.Add(rec)
	}
	f.users.Add(user.User{EmployeeCode: "ADMIN001", Email: "admin@dayflow.com", Role: user.RoleAdmin})

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	assert.Equal(t, 30, result.DaysInMonth)
	assert.Equal(t, 1, result.Generated)
	assert.Len(t, result.Outcomes, 1, "admins are not on payroll")

	o := outcomeOf(t, result, emp.ID)
	assert.Equal(t, payroll.OutcomeGenerated, o.Status)
	assert.Equal(t, "EMP0001", o.EmployeeCode)
	assert.Equal(t, "Asha Test", o.Name)
	assert.Equal(t, 26, o.PayableDays)
	assert.Equal(t, 30, o.DaysInMonth)
	assert.False(t, o.Fallback)
	require.NotNil(t, o.Payroll)
	assert.True(t, o.Payroll.NetPay.Equal(dec("40560")), "net %s", o.Payroll.NetPay)
	assert.True(t, o.Payroll.TotalDeductions.Equal(dec("9440")))
	assert.True(t, o.Payroll.TotalEarnings.Equal(dec("50000")))
	assert.True(t, o.Payroll.LossOfPay.Equal(dec("6240")))
	assert.True(t, o.Payroll.BaseWage.Equal(dec("50000")))
	assert.Equal(t, payroll.PayrollStatusGenerated, o.Payroll.Status)
	assert.Equal(t, 1, f.tx.Calls)
}

func TestRunPayroll_IsIdempotent(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")
	for _, rec := range weekdayRecords(emp.ID, sepMonth, sepYear, 22) {
		f.attendance.Add(rec)
	}

	_, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)
	first := f.payrolls.All()

	_, err = f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)
	second := f.payrolls.All()

	require.Len(t, second, 1)
	assert.Equal(t, first, second)
}

func TestRunPayroll_StrictSkipsMissingStructure(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	withStructure := f.addEmployee(t, "EMP0001", "Asha")
	without := f.addEmployee(t, "EMP0002", "Ravi")
	f.saveStructure(t, withStructure.ID, "30000")

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	o := outcomeOf(t, result, without.ID)
	assert.Equal(t, payroll.OutcomeSkipped, o.Status)
	assert.Equal(t, "no salary structure", o.Reason)
	assert.Nil(t, o.Payroll)
	assert.Len(t, f.payrolls.All(), 1)
}

func TestRunPayroll_LenientUsesFallbackWage(t *testing.T) {
	f := newFixture(t, payroll.PolicyLenient)
	emp := f.addEmployee(t, "EMP0002", "Ravi")

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	o := outcomeOf(t, result, emp.ID)
	assert.Equal(t, payroll.OutcomeGenerated, o.Status)
	assert.True(t, o.Fallback)
	require.NotNil(t, o.Payroll)
	assert.True(t, o.Payroll.BaseWage.Equal(dec("50000")))
	// Only the 4 Sundays are payable: 46800 * 4 / 30
	assert.True(t, o.Payroll.NetPay.Equal(dec("6240")), "net %s", o.Payroll.NetPay)
}

func TestRunPayroll_PaidRowsAreNotOverwritten(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)
	paid, err := f.svc.MarkPaid(context.Background(), outcomeOf(t, result, emp.ID).Payroll.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)

	for _, rec := range weekdayRecords(emp.ID, sepMonth, sepYear, 22) {
		f.attendance.Add(rec)
	}
	result, err = f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	o := outcomeOf(t, result, emp.ID)
	assert.Equal(t, payroll.OutcomeSkipped, o.Status)
	assert.Equal(t, "already paid", o.Reason)
	rows := f.payrolls.All()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsPaid())
	assert.True(t, rows[0].NetPay.Equal(dec("6240")))

	_, err = f.svc.MarkPaid(context.Background(), rows[0].ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)
}

func TestRunPayroll_ReportsPerEmployeeFailures(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	ok := f.addEmployee(t, "EMP0001", "Asha")
	broken := f.addEmployee(t, "EMP0002", "Ravi")
	f.saveStructure(t, ok.ID, "50000")
	f.saveStructure(t, broken.ID, "50000")
	f.payrolls.FailFor[broken.ID] = errors.New("disk full")

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Failed)
	o := outcomeOf(t, result, broken.ID)
	assert.Equal(t, payroll.OutcomeFailed, o.Status)
	assert.Contains(t, o.Reason, "disk full")
	assert.Equal(t, payroll.OutcomeGenerated, outcomeOf(t, result, ok.ID).Status)
}

func TestRunPayroll_ValidatesPeriod(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)

	_, err := f.svc.RunPayroll(context.Background(), payroll.PeriodRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	_, err = f.svc.RunPayroll(context.Background(), period(12, 2025))
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "month", verrs[0].Field)
}

func TestRunPayroll_ManyEmployees(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	for i := range 12 {
		emp := f.addEmployee(t, "EMP"+string(rune('A'+i)), "E")
		f.saveStructure(t, emp.ID, "40000")
	}

	result, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)
	assert.Equal(t, 12, result.Generated)
	assert.Len(t, f.payrolls.All(), 12)
	for _, o := range result.Outcomes {
		assert.NotEmpty(t, o.EmployeeID)
	}
}

func TestSaveStructure(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	admin := f.users.Add(user.User{EmployeeCode: "ADMIN001", Email: "admin@dayflow.com", Role: user.RoleAdmin})
	ctx := context.Background()

	resp, err := f.svc.SaveStructure(ctx, payroll.SaveStructureRequest{EmployeeID: emp.ID, GrossWage: dec("50000")})
	require.NoError(t, err)
	assert.True(t, resp.NetSalary.Equal(dec("46800")))
	assert.True(t, resp.TotalEarnings.Equal(dec("50000")))

	resp, err = f.svc.SaveStructure(ctx, payroll.SaveStructureRequest{EmployeeID: emp.ID, GrossWage: dec("60000")})
	require.NoError(t, err)
	stored, err := f.svc.GetStructure(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, stored.ID)
	assert.True(t, stored.GrossWage.Equal(dec("60000")))

	_, err = f.svc.SaveStructure(ctx, payroll.SaveStructureRequest{EmployeeID: emp.ID, GrossWage: dec("0")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.SaveStructure(ctx, payroll.SaveStructureRequest{EmployeeID: admin.ID, GrossWage: dec("50000")})
	assert.ErrorIs(t, err, payroll.ErrNotAnEmployee)

	_, err = f.svc.SaveStructure(ctx, payroll.SaveStructureRequest{EmployeeID: "0199a3b2-0000-7000-8000-000000000000", GrossWage: dec("50000")})
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)
}

func TestPayslip_Access(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	owner := f.addEmployee(t, "EMP0001", "Asha")
	other := f.addEmployee(t, "EMP0002", "Ravi")
	f.saveStructure(t, owner.ID, "50000")
	ctx := context.Background()

	result, err := f.svc.RunPayroll(ctx, period(sepMonth, sepYear))
	require.NoError(t, err)
	id := outcomeOf(t, result, owner.ID).Payroll.ID

	doc, err := f.svc.Payslip(ctx, owner.ID, false, id)
	require.NoError(t, err)
	assert.Equal(t, "payslip-EMP0001-2025-09.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.NotEmpty(t, doc.Content)

	_, err = f.svc.Payslip(ctx, other.ID, false, id)
	assert.ErrorIs(t, err, payroll.ErrPayslipForbidden)

	_, err = f.svc.Payslip(ctx, other.ID, true, id)
	assert.NoError(t, err)
}

func TestExportRegister(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")
	_, err := f.svc.RunPayroll(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)

	doc, err := f.svc.ExportRegister(context.Background(), period(sepMonth, sepYear))
	require.NoError(t, err)
	assert.Equal(t, "payroll-register-2025-09.xlsx", doc.Filename)
	assert.NotEmpty(t, doc.Content)
}

func TestHistory_NewestFirst(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")
	ctx := context.Background()

	for _, m := range []int{6, 8, 7} {
		_, err := f.svc.RunPayroll(ctx, period(m, sepYear))
		require.NoError(t, err)
	}

	history, err := f.svc.History(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{8, 7, 6}, []int{history[0].Month, history[1].Month, history[2].Month})
}

func TestSimulatorBase(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	f.saveStructure(t, emp.ID, "50000")
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: day(sepYear, sepMonth, 1), Status: attendance.StatusAbsent})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: day(sepYear, sepMonth, 2), Status: attendance.StatusAbsent})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: day(sepYear, sepMonth, 3), Status: attendance.StatusLeave})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: day(sepYear, sepMonth-1, 29), Status: attendance.StatusAbsent})

	base, err := f.svc.SimulatorBase(context.Background(), emp.ID)
	require.NoError(t, err)

	assert.True(t, base.GrossWage.Equal(dec("50000")))
	assert.False(t, base.Fallback)
	assert.Equal(t, 2, base.UnpaidLeavesTaken)
	assert.Equal(t, 1, base.PaidLeavesTaken)
	assert.Equal(t, 30, base.DaysInMonth)
	assert.Equal(t, 8, base.Month)
	assert.Equal(t, 2025, base.Year)
	assert.Equal(t, "September", base.MonthName)

	sim, err := f.svc.Simulate(context.Background(), emp.ID, payroll.SimulateRequest{ExtraUnpaidDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, sim.UnpaidDays)
	assert.True(t, sim.LossOfPay.Equal(dec("4680")))
}

func TestSimulate_StructureRequiredUnlessOverridden(t *testing.T) {
	f := newFixture(t, payroll.PolicyStrict)
	emp := f.addEmployee(t, "EMP0001", "Asha")
	ctx := context.Background()

	_, err := f.svc.SimulatorBase(ctx, emp.ID)
	assert.ErrorIs(t, err, payroll.ErrSalaryStructureNotFound)

	_, err = f.svc.Simulate(ctx, emp.ID, payroll.SimulateRequest{})
	assert.ErrorIs(t, err, payroll.ErrSalaryStructureNotFound)

	gross := dec("30000")
	sim, err := f.svc.Simulate(ctx, emp.ID, payroll.SimulateRequest{GrossWage: &gross})
	require.NoError(t, err)
	assert.True(t, sim.GrossWage.Equal(gross))

	_, err = f.svc.Simulate(ctx, emp.ID, payroll.SimulateRequest{GrossWage: &gross, ExtraUnpaidDays: 40})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
