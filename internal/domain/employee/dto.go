package employee

import (
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	JobTitle    string  `json:"job_title"`
	Department  string  `json:"department"`
	JoiningDate string  `json:"joining_date"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "is required")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "is required")
	}
	if r.Email == "" {
		errs.Add("email", "is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "must be a valid email address")
	}
	if r.JoiningDate != "" {
		if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
			errs.Add("joining_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "must be 7-15 digits")
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "must be a valid UUID")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "cannot be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "cannot be empty")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "must be 7-15 digits")
	}

	return errs.Err()
}

// UpdateProfileRequest is the self-service subset of profile fields.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	ProfilePic *string `json:"profile_pic,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "cannot be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "cannot be empty")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "must be 7-15 digits")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	EmployeeCode string  `json:"employee_code"`
	Department   string  `json:"department"`
	Avatar       *string `json:"avatar,omitempty"`
	Email        string  `json:"email"`
}

type CreateEmployeeResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	EmployeeCode string           `json:"employee_code"`
	EmailSent    bool             `json:"email_sent"`
}

type ProfileResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	JobTitle     *string   `json:"job_title,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	ProfilePic   *string   `json:"profile_pic,omitempty"`
	JoiningDate  string    `json:"joining_date"`
}

func NewEmployeeResponse(u user.User) EmployeeResponse {
	name := u.Profile.FullName()
	if name == "" {
		name = "No Name"
	}
	role := "Employee"
	if u.Profile.JobTitle != nil && *u.Profile.JobTitle != "" {
		role = *u.Profile.JobTitle
	}
	department := "Unassigned"
	if u.Profile.Department != nil && *u.Profile.Department != "" {
		department = *u.Profile.Department
	}
	return EmployeeResponse{
		ID:           u.ID,
		Name:         name,
		Role:         role,
		EmployeeCode: u.EmployeeCode,
		Department:   department,
		Avatar:       u.Profile.ProfilePic,
		Email:        u.Email,
	}
}

func NewProfileResponse(u user.User) ProfileResponse {
	return ProfileResponse{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		Email:        u.Email,
		Role:         u.Role,
		FirstName:    u.Profile.FirstName,
		LastName:     u.Profile.LastName,
		JobTitle:     u.Profile.JobTitle,
		Department:   u.Profile.Department,
		Phone:        u.Profile.Phone,
		Address:      u.Profile.Address,
		ProfilePic:   u.Profile.ProfilePic,
		JoiningDate:  u.Profile.JoiningDate.Format(time.DateOnly),
	}
}
