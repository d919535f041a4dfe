package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // HR administrator
	RoleEmployee Role = "EMPLOYEE" // Regular employee, the only role on payroll
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	EmployeeCode string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	FirstLogin   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Profile Profile
}

// Profile holds the personal and job details of a user.
type Profile struct {
	FirstName   string
	LastName    string
	JobTitle    *string
	Department  *string
	Phone       *string
	Address     *string
	ProfilePic  *string
	JoiningDate time.Time
}

// FullName returns "first last", trimmed when either part is missing.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return ""
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// IsAdmin checks if user is an HR administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName is the name shown to other users.
func (u *User) DisplayName() string {
	if u.IsAdmin() {
		return "Admin"
	}
	if name := u.Profile.FullName(); name != "" {
		return name
	}
	return "Unknown"
}
