package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/armaan/kanban-be/internal/apperr"
)

// ErrorResponse is the structured error body shared by every failing
// endpoint.
type ErrorResponse struct {
	Timestamp        time.Time `json:"timestamp"`
	Status           int       `json:"status"`
	Error            string    `json:"error"`
	Message          string    `json:"message"`
	Path             string    `json:"path"`
	ValidationErrors []string  `json:"validationErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     title,
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, problems []string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Timestamp:        time.Now(),
		Status:           http.StatusBadRequest,
		Error:            "Validation Failed",
		Message:          "Invalid input data",
		Path:             r.URL.Path,
		ValidationErrors: problems,
	})
}

// writeDomainError maps a domain error from the service layer onto its HTTP
// status code and non-leaking message. Unrecognized errors collapse to a
// generic 500; their detail was already logged where they occurred.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrDuplicateUsername), errors.Is(err, apperr.ErrDuplicateEmail):
		writeError(w, r, http.StatusConflict, "User Already Exists", err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Authentication Failed", "Invalid username/email or password")
	case errors.Is(err, apperr.ErrAccountDisabled):
		writeError(w, r, http.StatusForbidden, "Account Disabled", "Your account has been disabled. Please contact support.")
	case errors.Is(err, apperr.ErrAccountLocked):
		writeError(w, r, http.StatusLocked, "Account Locked", "Your account has been locked. Please contact support.")
	case errors.Is(err, apperr.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User Not Found", "User does not exist")
	case errors.Is(err, apperr.ErrTokenTampered), errors.Is(err, apperr.ErrTokenExpired):
		writeError(w, r, http.StatusUnauthorized, "Invalid Token", "The provided token is invalid or expired")
	default:
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error",
			"An unexpected error occurred. Please try again later.")
	}
}
