package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameExists         = errors.New("username already registered")
	ErrInvalidPasswordLength  = errors.New("password must be at least 8 characters")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
