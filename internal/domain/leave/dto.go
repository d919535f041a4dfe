package leave

import (
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	EmployeeID string    `json:"-"`
	Type       LeaveType `json:"type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Reason     string    `json:"reason"`

	startDate time.Time
	endDate   time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type == "" {
		errs.Add("type", "is required")
	} else if !r.Type.IsValid() {
		errs.Add("type", "must be SICK, PAID or UNPAID")
	}

	var startOK, endOK bool
	if r.StartDate == "" {
		errs.Add("start_date", "is required")
	} else if r.startDate, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs.Add("start_date", "must be in YYYY-MM-DD format")
	}
	if r.EndDate == "" {
		errs.Add("end_date", "is required")
	} else if r.endDate, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs.Add("end_date", "must be in YYYY-MM-DD format")
	}
	if startOK && endOK && r.endDate.Before(r.startDate) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "is required")
	}

	return errs.Err()
}

// Dates returns the parsed range; valid only after Validate succeeded.
func (r *ApplyLeaveRequest) Dates() (start, end time.Time) {
	return r.startDate, r.endDate
}

type ReviewLeaveRequest struct {
	ID         string        `json:"-"`
	ReviewerID string        `json:"-"`
	Status     RequestStatus `json:"status"`
	Comments   *string       `json:"comments,omitempty"`
}

func (r *ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs.Add("id", "is required")
	}
	if r.Status != StatusApproved && r.Status != StatusRejected {
		errs.Add("status", "must be APPROVED or REJECTED")
	}
	if r.Comments != nil {
		trimmed := strings.TrimSpace(*r.Comments)
		r.Comments = &trimmed
		if trimmed == "" {
			r.Comments = nil
		}
	}
	if r.Status == StatusRejected && r.Comments == nil {
		errs.Add("comments", "is required when rejecting")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID            string        `json:"id"`
	EmployeeID    string        `json:"employee_id"`
	EmployeeCode  *string       `json:"employee_code,omitempty"`
	Name          *string       `json:"name,omitempty"`
	Role          *string       `json:"role,omitempty"`
	Type          LeaveType     `json:"type"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Days          int           `json:"days"`
	Reason        string        `json:"reason"`
	Status        RequestStatus `json:"status"`
	AdminComments *string       `json:"admin_comments,omitempty"`
	AppliedAt     time.Time     `json:"applied_at"`
	ReviewedAt    *time.Time    `json:"reviewed_at,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeCode:  r.EmployeeCode,
		Type:          r.Type,
		StartDate:     r.StartDate.Format(time.DateOnly),
		EndDate:       r.EndDate.Format(time.DateOnly),
		Days:          r.Days(),
		Reason:        r.Reason,
		Status:        r.Status,
		AdminComments: r.AdminComments,
		AppliedAt:     r.AppliedAt,
		ReviewedAt:    r.ReviewedAt,
	}
	if r.FirstName != nil || r.LastName != nil {
		name := strings.TrimSpace(deref(r.FirstName) + " " + deref(r.LastName))
		resp.Name = &name
	}
	if r.EmployeeCode != nil {
		role := "Employee"
		if r.JobTitle != nil && *r.JobTitle != "" {
			role = *r.JobTitle
		}
		resp.Role = &role
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
