package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRoleNotAllowed  = errors.New("role is not allowed for automated assignment")
	ErrRoleUnknown     = errors.New("role does not exist")
	ErrUserNotFound    = errors.New("user not found")
	ErrLockHeld        = errors.New("user sync lock is held")
)
