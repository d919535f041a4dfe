package employee

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	employeeCodeFormat = "EMP%04d"
	// codeAttempts bounds retries when a generated code collides with a manually assigned one
	codeAttempts = 3

	temporaryPasswordLength = 10
	// No characters that HTML escaping would rewrite in the welcome email
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789@#$%"
)

type EmployeeServiceImpl struct {
	userRepo     user.UserRepository
	emailService email.EmailService
	loginURL     string
	loc          *time.Location
	now          func() time.Time
}

func NewEmployeeService(userRepo user.UserRepository, emailService email.EmailService, loginURL string, loc *time.Location) employee.EmployeeService {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployeeServiceImpl{
		userRepo:     userRepo,
		emailService: emailService,
		loginURL:     loginURL,
		loc:          loc,
		now:          time.Now,
	}
}

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	joiningDate := utils.DateOf(s.now(), s.loc)
	if req.JoiningDate != "" {
		joiningDate, _ = validator.IsValidDate(req.JoiningDate)
	}

	password, err := generatePassword(temporaryPasswordLength)
	if err != nil {
		return employee.CreateEmployeeResponse{}, fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return employee.CreateEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleEmployee,
		IsActive:     true,
		FirstLogin:   true,
		Profile: user.Profile{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			JobTitle:    optional(req.JobTitle),
			Department:  optional(req.Department),
			Phone:       req.Phone,
			Address:     req.Address,
			JoiningDate: joiningDate,
		},
	}

	var created user.User
	for attempt := 1; ; attempt++ {
		seq, err := s.userRepo.NextEmployeeSequence(ctx)
		if err != nil {
			return employee.CreateEmployeeResponse{}, err
		}
		newUser.EmployeeCode = fmt.Sprintf(employeeCodeFormat, seq)

		created, err = s.userRepo.Create(ctx, newUser)
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, user.ErrUserEmailExists):
			return employee.CreateEmployeeResponse{}, employee.ErrEmailExists
		case errors.Is(err, user.ErrEmployeeCodeExists) && attempt < codeAttempts:
			slog.Warn("Generated employee code already taken, retrying", "employee_code", newUser.EmployeeCode)
			continue
		case errors.Is(err, user.ErrEmployeeCodeExists):
			return employee.CreateEmployeeResponse{}, employee.ErrEmployeeCodeExists
		}
		return employee.CreateEmployeeResponse{}, err
	}

	slog.Info("Employee created", "user_id", created.ID, "employee_code", created.EmployeeCode)

	emailErr := s.emailService.SendWelcome(email.WelcomeMessage{
		To:                created.Email,
		Name:              created.Profile.FullName(),
		EmployeeCode:      created.EmployeeCode,
		TemporaryPassword: password,
		LoginURL:          s.loginURL,
	})
	if emailErr != nil && !errors.Is(emailErr, email.ErrDisabled) {
		slog.Warn("Welcome email not delivered", "user_id", created.ID, "error", emailErr)
	}

	return employee.CreateEmployeeResponse{
		Employee:     employee.NewEmployeeResponse(created),
		EmployeeCode: created.EmployeeCode,
		EmailSent:    emailErr == nil,
	}, nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	users, err := s.userRepo.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, employee.NewEmployeeResponse(u))
	}
	return resp, nil
}

// getEmployee loads a user and insists on the EMPLOYEE role.
func (s *EmployeeServiceImpl) getEmployee(ctx context.Context, id string) (user.User, error) {
	if !validator.IsValidUUID(id) {
		return user.User{}, employee.ErrEmployeeNotFound
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, employee.ErrEmployeeNotFound
		}
		return user.User{}, err
	}
	if u.Role != user.RoleEmployee {
		return user.User{}, employee.ErrNotAnEmployee
	}
	return u, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.getEmployee(ctx, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.userRepo.UpdateProfile(ctx, user.UpdateProfileParams{
		UserID:     req.ID,
		FirstName:  trimmed(req.FirstName),
		LastName:   trimmed(req.LastName),
		JobTitle:   trimmed(req.JobTitle),
		Department: trimmed(req.Department),
		Phone:      trimmed(req.Phone),
		Address:    trimmed(req.Address),
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// DeleteEmployee implements employee.EmployeeService. Owned rows go with the
// user through ON DELETE CASCADE.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.getEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return err
	}

	slog.Info("Employee deleted", "user_id", id)
	return nil
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context, userID string) (employee.ProfileResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return employee.ProfileResponse{}, err
	}
	return employee.NewProfileResponse(u), nil
}

// UpdateProfile implements employee.EmployeeService. Job title and department
// stay admin-managed.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, userID string, req employee.UpdateProfileRequest) (employee.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.ProfileResponse{}, err
	}

	updated, err := s.userRepo.UpdateProfile(ctx, user.UpdateProfileParams{
		UserID:     userID,
		FirstName:  trimmed(req.FirstName),
		LastName:   trimmed(req.LastName),
		Phone:      trimmed(req.Phone),
		Address:    trimmed(req.Address),
		ProfilePic: trimmed(req.ProfilePic),
	})
	if err != nil {
		return employee.ProfileResponse{}, err
	}
	return employee.NewProfileResponse(updated), nil
}

// EnsureAdmin implements employee.EmployeeService.
func (s *EmployeeServiceImpl) EnsureAdmin(ctx context.Context, adminEmail, code, password string) error {
	_, err := s.userRepo.GetByLoginID(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}
	if password == "" {
		slog.Warn("No admin account found and SEED_ADMIN_PASSWORD is empty, skipping admin seed", "email", adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := s.userRepo.Create(ctx, user.User{
		EmployeeCode: code,
		Email:        strings.ToLower(adminEmail),
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
		Profile: user.Profile{
			FirstName:   "Admin",
			JoiningDate: utils.DateOf(s.now(), s.loc),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	slog.Info("Admin account seeded", "user_id", admin.ID, "email", admin.Email)
	return nil
}
