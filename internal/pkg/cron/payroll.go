package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
)

// PayrollJobs processes the previous month's payroll on a fixed day of the month.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	day            int
	loc            *time.Location
	now            func() time.Time

	mu      sync.Mutex
	lastRun string
}

func NewPayrollJobs(payrollService payroll.PayrollService, day int, loc *time.Location) *PayrollJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollJobs{
		payrollService: payrollService,
		day:            day,
		loc:            loc,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monthly_payroll", 1*time.Hour, j.ProcessPreviousMonth)
}

// ProcessPreviousMonth runs payroll for last month when today is the configured
// day, at most once per calendar month per process.
func (j *PayrollJobs) ProcessPreviousMonth(ctx context.Context) error {
	today := j.now().In(j.loc)
	if today.Day() != j.day {
		return nil
	}

	key := today.Format("2006-01")
	j.mu.Lock()
	if j.lastRun == key {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	prev := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, j.loc).AddDate(0, -1, 0)
	month, year := int(prev.Month())-1, prev.Year()

	slog.Info("Cron: processing monthly payroll", "month", month, "year", year)
	result, err := j.payrollService.RunPayroll(ctx, payroll.PeriodRequest{Month: &month, Year: &year})
	if err != nil {
		return fmt.Errorf("failed to run payroll for %d/%d: %w", month, year, err)
	}

	// Employees that failed are picked up again on the next tick.
	if result.Failed == 0 {
		j.mu.Lock()
		j.lastRun = key
		j.mu.Unlock()
	}

	slog.Info("Cron: monthly payroll processed",
		"month", month,
		"year", year,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return nil
}
