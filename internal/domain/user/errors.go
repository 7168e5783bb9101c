package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrInvalidPasswordLength   = errors.New("password must be at least 8 characters")
	ErrInvalidRole             = errors.New("invalid role")
	ErrOAuthProviderIDExists   = errors.New("oauth provider id already registered")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
