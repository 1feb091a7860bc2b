package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool          `json:"success"`
	Error   int           `json:"error"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents a validation error detail
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, status int, message string, details []ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
		Details: details,
	})
}

// RespondWithJSON sends a JSON payload with the given status
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationErrors is a slice of validation errors
type ValidationErrors []ValidationError

// Add adds a validation error to the slice
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, NewValidationError(field, message))
}

// ToErrorDetails converts validation errors to error details
func (v ValidationErrors) ToErrorDetails() []ErrorDetail {
	details := make([]ErrorDetail, len(v))
	for i, err := range v {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
		}
	}
	return details
}
