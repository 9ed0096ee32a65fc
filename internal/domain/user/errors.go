package user

import "errors"

var (
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeClaimRequired   = errors.New("token is not bound to an employee")
)
