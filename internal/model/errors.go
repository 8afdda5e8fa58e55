package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidPlayerID = errors.New("invalid player id")

	// Uniqueness errors
	ErrDuplicateHandle  = errors.New("handle already in use")
	ErrDuplicateContact = errors.New("contact address already in use")

	// Validation errors; wrap with fmt.Errorf("%w: detail", ErrValidation)
	ErrValidation = errors.New("validation failed")
)
