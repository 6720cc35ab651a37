package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"splitrip-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// statusForError maps service error kinds onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidShare),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailExists),
		errors.Is(err, services.ErrDuplicateParticipant):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError maps a service error to a status code, hiding the
// message for internal failures
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondError(w, message, status)
}
