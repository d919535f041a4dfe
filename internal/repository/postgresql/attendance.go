package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status, a.created_at, a.updated_at`

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func scanEmployeeAttendance(row rowScanner) (attendance.EmployeeAttendance, error) {
	var e attendance.EmployeeAttendance
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.Date,
		&e.CheckIn,
		&e.CheckOut,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.EmployeeCode,
		&e.FirstName,
		&e.LastName,
		&e.JobTitle,
		&e.Department,
		&e.ProfilePic,
	)
	return e, err
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.employee_id = $1 AND a.date = $2`

	found, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return found, nil
}

// CreateCheckIn implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateCheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances AS a (id, employee_id, date, check_in, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query, id, employeeID, date, at, attendance.StatusPresent))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create check-in: %w", err)
	}
	return created, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id string, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances AS a
		SET check_out = $2, updated_at = NOW()
		WHERE a.id = $1 AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to set check-out: %w", err)
	}
	return updated, nil
}

// MarkLeave implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MarkLeave(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, id, employeeID, date, attendance.StatusLeave); err != nil {
		return fmt.Errorf("failed to mark leave on %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

const employeeAttendanceSelect = `
	SELECT ` + attendanceColumns + `,
		u.employee_code, u.first_name, u.last_name, u.job_title, u.department, u.profile_pic
	FROM attendances a
	INNER JOIN users u ON u.id = a.employee_id`

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.EmployeeAttendance, error) {
	query := employeeAttendanceSelect + `
		WHERE a.date = $1
		ORDER BY a.check_in DESC NULLS LAST, u.employee_code
	`
	return r.listEmployeeAttendance(ctx, query, date)
}

// ListEmployeeRecordsByRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListEmployeeRecordsByRange(ctx context.Context, from, to time.Time) ([]attendance.EmployeeAttendance, error) {
	query := employeeAttendanceSelect + `
		WHERE u.role = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date, u.employee_code
	`
	return r.listEmployeeAttendance(ctx, query, user.RoleEmployee, from, to)
}

func (r *attendanceRepositoryImpl) listEmployeeAttendance(ctx context.Context, query string, args ...any) ([]attendance.EmployeeAttendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.EmployeeAttendance
	for rows.Next() {
		e, err := scanEmployeeAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee attendance: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee attendance: %w", err)
	}
	return records, nil
}

// CountByDateAndStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByDateAndStatus(ctx context.Context, date time.Time, status attendance.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE date = $1 AND status = $2`, date, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}
