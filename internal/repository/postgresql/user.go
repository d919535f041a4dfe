package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	id, employee_code, email, password_hash, role, is_active, first_login,
	first_name, last_name, job_title, department, phone, address, profile_pic,
	joining_date, created_at, updated_at`

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.EmployeeCode,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.FirstLogin,
		&u.Profile.FirstName,
		&u.Profile.LastName,
		&u.Profile.JobTitle,
		&u.Profile.Department,
		&u.Profile.Phone,
		&u.Profile.Address,
		&u.Profile.ProfilePic,
		&u.Profile.JoiningDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	found, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return found, nil
}

// GetByLoginID implements user.UserRepository.
func (r *userRepositoryImpl) GetByLoginID(ctx context.Context, loginID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) OR UPPER(employee_code) = UPPER($1)
		LIMIT 1
	`

	found, err := scanUser(q.QueryRow(ctx, query, loginID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by login id: %w", err)
	}
	return found, nil
}

// ListByRole implements user.UserRepository.
func (r *userRepositoryImpl) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return user.User{}, err
	}

	query := `
		INSERT INTO users (
			id, employee_code, email, password_hash, role, is_active, first_login,
			first_name, last_name, job_title, department, phone, address, profile_pic, joining_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + userColumns

	p := newUser.Profile
	created, err := scanUser(q.QueryRow(ctx, query,
		id,
		newUser.EmployeeCode,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.IsActive,
		newUser.FirstLogin,
		p.FirstName,
		p.LastName,
		p.JobTitle,
		p.Department,
		p.Phone,
		p.Address,
		p.ProfilePic,
		p.JoiningDate,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err, "users_email_key"):
			return user.User{}, user.ErrUserEmailExists
		case isUniqueViolation(err, "users_employee_code_key"):
			return user.User{}, user.ErrEmployeeCodeExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, params user.UpdateProfileParams) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users SET
			first_name  = COALESCE($2, first_name),
			last_name   = COALESCE($3, last_name),
			job_title   = COALESCE($4, job_title),
			department  = COALESCE($5, department),
			phone       = COALESCE($6, phone),
			address     = COALESCE($7, address),
			profile_pic = COALESCE($8, profile_pic),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query,
		params.UserID,
		params.FirstName,
		params.LastName,
		params.JobTitle,
		params.Department,
		params.Phone,
		params.Address,
		params.ProfilePic,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string, firstLogin bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET password_hash = $2, first_login = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, userID, passwordHash, firstLogin)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// NextEmployeeSequence implements user.UserRepository.
func (r *userRepositoryImpl) NextEmployeeSequence(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var next int64
	if err := q.QueryRow(ctx, `SELECT nextval('employee_code_seq')`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read employee code sequence: %w", err)
	}
	return next, nil
}

// CountActiveByRole implements user.UserRepository.
func (r *userRepositoryImpl) CountActiveByRole(ctx context.Context, role user.Role) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1 AND is_active`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountJoinedSince implements user.UserRepository.
func (r *userRepositoryImpl) CountJoinedSince(ctx context.Context, role user.Role, since time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM users WHERE role = $1 AND joining_date >= $2`

	var count int
	if err := q.QueryRow(ctx, query, role, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count joined users: %w", err)
	}
	return count, nil
}
