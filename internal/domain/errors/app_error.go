package apperrors

import (
	"fmt"
	"net/http"
)

// AppError represents a resource error answered with an HTTP status
// @Description An application error with a status and a message
type AppError struct {
	Status  int    `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Messages returned at the boundary
const (
	MessageBadRequest       = "bad request"
	MessageNotFound         = "resource not found"
	MessageMethodNotAllowed = "method not allowed"
	MessageUnprocessable    = "unprocessable"
	MessageInternal         = "internal server error"
)

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: MessageBadRequest, Err: err}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: MessageNotFound, Err: err}
}

// NewMethodNotAllowedError creates a new method not allowed error
func NewMethodNotAllowedError() *AppError {
	return &AppError{Status: http.StatusMethodNotAllowed, Message: MessageMethodNotAllowed}
}

// NewUnprocessableError creates a new unprocessable entity error
func NewUnprocessableError(err error) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Message: MessageUnprocessable, Err: err}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: MessageInternal, Err: err}
}
