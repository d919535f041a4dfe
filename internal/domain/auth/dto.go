package auth

import (
	"strings"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type LoginRequest struct {
	// LoginID is either the email address or the employee code.
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.LoginID = strings.TrimSpace(r.LoginID)
	if r.LoginID == "" {
		errs.Add("login_id", "login_id is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (r *UpdatePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.NewPassword) < 6 {
		errs.Add("new_password", "password must be at least 6 characters")
	}
	if len(r.NewPassword) > 72 {
		errs.Add("new_password", "password must not exceed 72 characters")
	}

	return errs.Err()
}

type SessionUser struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	FirstLogin   bool      `json:"first_login"`
	Name         string    `json:"name"`
}

type LoginResponse struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   int64       `json:"expires_at"`
}

func NewSessionUser(u user.User) SessionUser {
	name := u.Profile.FirstName
	if name == "" {
		name = "User"
	}
	return SessionUser{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		Email:        u.Email,
		Role:         u.Role,
		FirstLogin:   u.FirstLogin,
		Name:         name,
	}
}
