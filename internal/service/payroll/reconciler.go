package payroll

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
)

// Reconciler turns a month of attendance into payable days.
type Reconciler struct {
	attendanceRepo  attendance.AttendanceRepository
	payableStatuses []attendance.Status
}

func NewReconciler(attendanceRepo attendance.AttendanceRepository, payableStatuses []attendance.Status) *Reconciler {
	return &Reconciler{
		attendanceRepo:  attendanceRepo,
		payableStatuses: payableStatuses,
	}
}

// PayableDays reads the employee's records for the 0-indexed month and reconciles them.
func (r *Reconciler) PayableDays(ctx context.Context, employeeID string, month, year int) (payroll.PayableDays, error) {
	first, last := utils.MonthRange(month, year)

	records, err := r.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, first, last)
	if err != nil {
		return payroll.PayableDays{}, fmt.Errorf("failed to load attendance for %d-%02d: %w", year, month+1, err)
	}
	return CountPayableDays(records, month, year, r.payableStatuses), nil
}

// CountPayableDays credits every record with a payable status plus every
// Sunday of the month. A Sunday that already carries a payable record is not
// credited twice. The total never exceeds the month length.
func CountPayableDays(records []attendance.Attendance, month, year int, payableStatuses []attendance.Status) payroll.PayableDays {
	first, last := utils.MonthRange(month, year)
	daysInMonth := last.Day()

	seen := make(map[time.Time]bool, len(records))
	payableSundays := 0
	worked := 0
	for _, rec := range records {
		day := utils.DateOf(rec.Date, time.UTC)
		if day.Before(first) || day.After(last) || seen[day] {
			continue
		}
		if !slices.Contains(payableStatuses, rec.Status) {
			continue
		}
		seen[day] = true
		worked++
		if day.Weekday() == time.Sunday {
			payableSundays++
		}
	}

	sundays := utils.CountWeekday(month, year, time.Sunday) - payableSundays

	return payroll.PayableDays{
		PayableDays:    min(worked+sundays, daysInMonth),
		DaysInMonth:    daysInMonth,
		AttendanceDays: worked,
		SundayDays:     sundays,
	}
}
