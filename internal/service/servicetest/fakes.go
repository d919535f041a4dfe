// Package servicetest holds in-memory repositories for service tests.
package servicetest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/chat"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/google/uuid"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Tx runs fn directly and counts the calls.
type Tx struct {
	mu    sync.Mutex
	Calls int
}

func (t *Tx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// ========== USERS ==========

type Users struct {
	mu    sync.Mutex
	byID  map[string]user.User
	seq   int64
	Clock func() time.Time
}

func NewUsers(users ...user.User) *Users {
	r := &Users{byID: map[string]user.User{}, Clock: time.Now}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

// Add stores u as is, assigning an ID when empty.
func (r *Users) Add(u user.User) user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.Clock()
	}
	r.byID[u.ID] = u
	return u
}

func (r *Users) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *Users) GetByLoginID(ctx context.Context, loginID string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, loginID) || strings.EqualFold(u.EmployeeCode, loginID) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *Users) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []user.User
	for _, u := range r.byID {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].EmployeeCode < users[j].EmployeeCode
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *Users) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, newUser.Email) {
			r.mu.Unlock()
			return user.User{}, user.ErrUserEmailExists
		}
		if u.EmployeeCode == newUser.EmployeeCode {
			r.mu.Unlock()
			return user.User{}, user.ErrEmployeeCodeExists
		}
	}
	r.mu.Unlock()
	newUser.ID = ""
	return r.Add(newUser), nil
}

func (r *Users) UpdateProfile(ctx context.Context, p user.UpdateProfileParams) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[p.UserID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.Profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.Profile.LastName = *p.LastName
	}
	if p.JobTitle != nil {
		u.Profile.JobTitle = p.JobTitle
	}
	if p.Department != nil {
		u.Profile.Department = p.Department
	}
	if p.Phone != nil {
		u.Profile.Phone = p.Phone
	}
	if p.Address != nil {
		u.Profile.Address = p.Address
	}
	if p.ProfilePic != nil {
		u.Profile.ProfilePic = p.ProfilePic
	}
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) UpdatePassword(ctx context.Context, userID, passwordHash string, firstLogin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.FirstLogin = firstLogin
	r.byID[userID] = u
	return nil
}

func (r *Users) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Users) NextEmployeeSequence(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *Users) CountActiveByRole(ctx context.Context, role user.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Role == role && u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *Users) CountJoinedSince(ctx context.Context, role user.Role, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Role == role && !u.Profile.JoiningDate.Before(since) {
			n++
		}
	}
	return n, nil
}

// ========== ATTENDANCE ==========

type Attendance struct {
	mu      sync.Mutex
	records []attendance.Attendance
	users   *Users
	// Err is returned by every read when set.
	Err error
}

// NewAttendance joins employee display data from users, which may be nil.
func NewAttendance(users *Users) *Attendance {
	return &Attendance{users: users}
}

// Add stores a record as is.
func (r *Attendance) Add(a attendance.Attendance) attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	r.records = append(r.records, a)
	return a
}

// All returns a copy of every stored record.
func (r *Attendance) All() []attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records)
}

func (r *Attendance) find(employeeID string, date time.Time) int {
	return slices.IndexFunc(r.records, func(a attendance.Attendance) bool {
		return a.EmployeeID == employeeID && a.Date.Equal(date)
	})
}

func (r *Attendance) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return attendance.Attendance{}, r.Err
	}
	if i := r.find(employeeID, date); i >= 0 {
		return r.records[i], nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *Attendance) CreateCheckIn(ctx context.Context, employeeID string, date time.Time, at time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(employeeID, date) >= 0 {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a := attendance.Attendance{ID: newID(), EmployeeID: employeeID, Date: date, CheckIn: &at, Status: attendance.StatusPresent, CreatedAt: at, UpdatedAt: at}
	r.records = append(r.records, a)
	return a, nil
}

func (r *Attendance) SetCheckOut(ctx context.Context, id string, at time.Time) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.records, func(a attendance.Attendance) bool { return a.ID == id })
	if i < 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if r.records[i].CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	r.records[i].CheckOut = &at
	return r.records[i], nil
}

func (r *Attendance) MarkLeave(ctx context.Context, employeeID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.find(employeeID, date); i >= 0 {
		r.records[i].Status = attendance.StatusLeave
		return nil
	}
	r.records = append(r.records, attendance.Attendance{ID: newID(), EmployeeID: employeeID, Date: date, Status: attendance.StatusLeave})
	return nil
}

func (r *Attendance) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *Attendance) join(a attendance.Attendance) (attendance.EmployeeAttendance, bool) {
	e := attendance.EmployeeAttendance{Attendance: a}
	if r.users == nil {
		return e, true
	}
	u, err := r.users.GetByID(context.Background(), a.EmployeeID)
	if err != nil {
		return e, false
	}
	e.EmployeeCode = u.EmployeeCode
	e.FirstName = u.Profile.FirstName
	e.LastName = u.Profile.LastName
	e.JobTitle = u.Profile.JobTitle
	e.Department = u.Profile.Department
	e.ProfilePic = u.Profile.ProfilePic
	return e, u.Role == user.RoleEmployee
}

func (r *Attendance) ListByDate(ctx context.Context, date time.Time) ([]attendance.EmployeeAttendance, error) {
	r.mu.Lock()
	records := slices.Clone(r.records)
	r.mu.Unlock()

	var out []attendance.EmployeeAttendance
	for _, a := range records {
		if a.Date.Equal(date) {
			e, _ := r.join(a)
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Attendance) ListEmployeeRecordsByRange(ctx context.Context, from, to time.Time) ([]attendance.EmployeeAttendance, error) {
	r.mu.Lock()
	records := slices.Clone(r.records)
	r.mu.Unlock()

	var out []attendance.EmployeeAttendance
	for _, a := range records {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		if e, isEmployee := r.join(a); isEmployee {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *Attendance) CountByDateAndStatus(ctx context.Context, date time.Time, status attendance.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.records {
		if a.Date.Equal(date) && a.Status == status {
			n++
		}
	}
	return n, nil
}

// ========== LEAVE REQUESTS ==========

type LeaveRequests struct {
	mu       sync.Mutex
	requests []leave.LeaveRequest
	Clock    func() time.Time
}

func NewLeaveRequests() *LeaveRequests {
	return &LeaveRequests{Clock: time.Now}
}

func (r *LeaveRequests) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = newID()
	req.Status = leave.StatusPending
	if req.AppliedAt.IsZero() {
		req.AppliedAt = r.Clock()
	}
	r.requests = append(r.requests, req)
	return req, nil
}

func (r *LeaveRequests) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lr := range r.requests {
		if lr.ID == id {
			return lr, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *LeaveRequests) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *LeaveRequests) filter(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, lr := range r.requests {
		if keep(lr) {
			out = append(out, lr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func (r *LeaveRequests) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(func(lr leave.LeaveRequest) bool { return lr.EmployeeID == employeeID }), nil
}

func (r *LeaveRequests) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.filter(func(leave.LeaveRequest) bool { return true }), nil
}

func (r *LeaveRequests) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, comments *string, reviewerID string, reviewedAt time.Time) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		if r.requests[i].ID != id {
			continue
		}
		r.requests[i].Status = status
		if comments != nil {
			r.requests[i].AdminComments = comments
		}
		r.requests[i].ReviewedBy = &reviewerID
		r.requests[i].ReviewedAt = &reviewedAt
		return r.requests[i], nil
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *LeaveRequests) CountByStatus(ctx context.Context, status leave.RequestStatus) (int, error) {
	return len(r.filter(func(lr leave.LeaveRequest) bool { return lr.Status == status })), nil
}

func (r *LeaveRequests) ListApprovedByEmployeeSince(ctx context.Context, employeeID string, since time.Time) ([]leave.LeaveRequest, error) {
	return r.filter(func(lr leave.LeaveRequest) bool {
		return lr.EmployeeID == employeeID && lr.Status == leave.StatusApproved && !lr.StartDate.Before(since)
	}), nil
}

// ========== SALARY STRUCTURES ==========

type Structures struct {
	mu         sync.Mutex
	byEmployee map[string]payroll.SalaryStructure
}

func NewStructures() *Structures {
	return &Structures{byEmployee: map[string]payroll.SalaryStructure{}}
}

func (r *Structures) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.SalaryStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byEmployee[employeeID]
	if !ok {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
	}
	return s, nil
}

func (r *Structures) Upsert(ctx context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byEmployee[s.EmployeeID]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else {
		s.ID = newID()
		s.CreatedAt = time.Now()
	}
	s.UpdatedAt = time.Now()
	r.byEmployee[s.EmployeeID] = s
	return s, nil
}

// ========== PAYROLLS ==========

type Payrolls struct {
	mu    sync.Mutex
	rows  []payroll.Payroll
	users *Users
	// FailFor makes Upsert fail for the given employee IDs.
	FailFor map[string]error
}

func NewPayrolls(users *Users) *Payrolls {
	return &Payrolls{users: users, FailFor: map[string]error{}}
}

// All returns a copy of every stored row.
func (r *Payrolls) All() []payroll.Payroll {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rows)
}

func (r *Payrolls) withEmployee(p payroll.Payroll) payroll.Payroll {
	if r.users == nil {
		return p
	}
	if u, err := r.users.GetByID(context.Background(), p.EmployeeID); err == nil {
		p.EmployeeCode = &u.EmployeeCode
		p.FirstName = &u.Profile.FirstName
		p.LastName = &u.Profile.LastName
		p.Department = u.Profile.Department
	}
	return p
}

func (r *Payrolls) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			return r.withEmployee(p), nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r *Payrolls) GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return r.withEmployee(p), nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r *Payrolls) Upsert(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailFor[record.EmployeeID]; ok {
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}
	record.Status = payroll.PayrollStatusGenerated
	for i, p := range r.rows {
		if p.EmployeeID == record.EmployeeID && p.Month == record.Month && p.Year == record.Year {
			if p.IsPaid() {
				return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
			}
			record.ID = p.ID
			record.GeneratedAt = p.GeneratedAt
			r.rows[i] = record
			return r.withEmployee(record), nil
		}
	}
	record.ID = newID()
	record.GeneratedAt = time.Date(record.Year, time.Month(record.Month+1), 1, 0, 0, 0, 0, time.UTC)
	r.rows = append(r.rows, record)
	return r.withEmployee(record), nil
}

func (r *Payrolls) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.rows {
		if p.Month == month && p.Year == year {
			out = append(out, r.withEmployee(p))
		}
	}
	return out, nil
}

func (r *Payrolls) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.rows {
		if p.EmployeeID == employeeID {
			out = append(out, r.withEmployee(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (r *Payrolls) MarkPaid(ctx context.Context, id string) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.rows {
		if p.ID != id {
			continue
		}
		if p.IsPaid() {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
		}
		now := time.Now()
		r.rows[i].Status = payroll.PayrollStatusPaid
		r.rows[i].PaidAt = &now
		return r.withEmployee(r.rows[i]), nil
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r *Payrolls) CountByPeriod(ctx context.Context, month, year int) (int, error) {
	rows, _ := r.ListByPeriod(ctx, month, year)
	return len(rows), nil
}

// ========== CHAT ==========

type Messages struct {
	mu       sync.Mutex
	messages []chat.Message
	users    *Users
	Clock    func() time.Time
}

func NewMessages(users *Users) *Messages {
	return &Messages{users: users, Clock: time.Now}
}

func (r *Messages) Create(ctx context.Context, msg chat.Message) (chat.Message, error) {
	u, err := r.users.GetByID(ctx, msg.SenderID)
	if err != nil {
		return chat.Message{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = newID()
	msg.CreatedAt = r.Clock()
	msg.SenderRole = u.Role
	msg.SenderFirstName = &u.Profile.FirstName
	msg.SenderLastName = &u.Profile.LastName
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *Messages) ListRecent(ctx context.Context, limit int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := max(0, len(r.messages)-limit)
	return slices.Clone(r.messages[start:]), nil
}
