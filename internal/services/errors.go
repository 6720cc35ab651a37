package services

import "errors"

// Stable error kinds the handlers map onto HTTP status codes.
var (
	// ErrValidation wraps malformed or missing input; the wrapping message
	// names the offending field.
	ErrValidation = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmailExists        = errors.New("email already registered")

	ErrTripNotFound    = errors.New("trip not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrRequestNotFound = errors.New("travel request not found")

	ErrInvalidShare         = errors.New("share must be greater than 0 and at most 1")
	ErrDuplicateParticipant = errors.New("participant already added to this trip")

	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidStatus = errors.New("status must be pending, approved or rejected")
)
