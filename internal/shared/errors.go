package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates a malformed or incomplete request payload.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotActive indicates a disabled or suspended account.
	ErrUserNotActive = errors.New("user account is not active")
	// ErrUserNotFound indicates that identity resolution found no user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrTenantNotFound indicates that the user's tenant reference is dangling.
	// Resolution treats this as non-fatal and degrades the tenant fields.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrAuthenticationRequired indicates that no subject is present on the request.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrPermissionDenied indicates an authenticated subject lacking a role or permission.
	ErrPermissionDenied = errors.New("permission denied")
)
