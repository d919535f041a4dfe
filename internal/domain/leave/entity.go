package leave

import "time"

type LeaveType string

const (
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypePaid   LeaveType = "PAID"
	LeaveTypeUnpaid LeaveType = "UNPAID"
)

func (t LeaveType) IsValid() bool {
	return t == LeaveTypeSick || t == LeaveTypePaid || t == LeaveTypeUnpaid
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// LeaveRequest is one leave application. StartDate and EndDate are inclusive
// date-only values at UTC midnight.
type LeaveRequest struct {
	ID            string
	EmployeeID    string
	Type          LeaveType
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	Status        RequestStatus
	AdminComments *string
	AppliedAt     time.Time
	ReviewedAt    *time.Time
	ReviewedBy    *string

	// Joined fields
	EmployeeCode *string
	FirstName    *string
	LastName     *string
	JobTitle     *string
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Days returns the inclusive day count of the request.
func (r LeaveRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
