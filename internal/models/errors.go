package models

import "errors"

// Domain errors
var (
	ErrCardExpired             = errors.New("card expiry year is in the past")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEmptyScenario           = errors.New("scenario name cannot be empty")
	ErrEmptyProfile            = errors.New("profile name cannot be empty")
	ErrEmptyEmail              = errors.New("account email cannot be empty")
	ErrAccountAlreadyDeleted   = errors.New("account is already deleted")
)
