package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Authorization failure codes
const (
	CodeAuthorizationHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader              = "invalid_header"
	CodeInvalidSignatureOrClaims   = "invalid_signature_or_claims"
	CodeTokenExpired               = "token_expired"
	CodeInvalidClaims              = "invalid_claims"
	CodeUnauthorized               = "unauthorized"
	CodeKeySetUnavailable          = "key_set_unavailable"
)

// AuthError is a failure of the request authorization pipeline.
// It carries the status code the boundary must answer with.
type AuthError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	StatusCode  int    `json:"-"`
	Err         error  `json:"-"`
}

// Error returns the error message
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap returns the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError
func NewAuthError(code, description string, status int, cause error) *AuthError {
	return &AuthError{
		Code:        code,
		Description: description,
		StatusCode:  status,
		Err:         cause,
	}
}

func ErrAuthorizationHeaderMissing() *AuthError {
	return NewAuthError(CodeAuthorizationHeaderMissing, "Authorization header is expected.", http.StatusUnauthorized, nil)
}

func ErrInvalidHeader(description string, cause error) *AuthError {
	return NewAuthError(CodeInvalidHeader, description, http.StatusUnauthorized, cause)
}

func ErrInvalidSignatureOrClaims(description string, cause error) *AuthError {
	return NewAuthError(CodeInvalidSignatureOrClaims, description, http.StatusUnauthorized, cause)
}

func ErrTokenExpired(cause error) *AuthError {
	return NewAuthError(CodeTokenExpired, "Token expired.", http.StatusUnauthorized, cause)
}

func ErrInvalidClaims(description string) *AuthError {
	return NewAuthError(CodeInvalidClaims, description, http.StatusBadRequest, nil)
}

func ErrPermissionDenied(permission string) *AuthError {
	return NewAuthError(CodeUnauthorized, fmt.Sprintf("Permission %q not granted.", permission), http.StatusForbidden, nil)
}

func ErrKeySetFetch(cause error) *AuthError {
	return NewAuthError(CodeKeySetUnavailable, "Unable to fetch signing keys.", http.StatusInternalServerError, cause)
}

// AsAuthError extracts an AuthError from err. Anything that is not an
// AuthError is reported as a key set failure so that it never passes as authorized.
func AsAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return NewAuthError(CodeKeySetUnavailable, "Unable to verify token.", http.StatusInternalServerError, err)
}
