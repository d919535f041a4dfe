package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrEmployeeCodeExists     = errors.New("employee code already registered")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrUserInactive           = errors.New("account is inactive")
)
