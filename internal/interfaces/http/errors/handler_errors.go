package errors

import (
	"errors"
	"net/http"

	"github.com/manorfm/coffee-shop/internal/domain"
	apperrors "github.com/manorfm/coffee-shop/internal/domain/errors"
)

// RespondWithAuthError answers an authorization failure. The message is the
// failure code so clients can branch on it.
func RespondWithAuthError(w http.ResponseWriter, err error) {
	authErr := domain.AsAuthError(err)
	RespondWithError(w, authErr.StatusCode, authErr.Code, nil)
}

// RespondWithAppError maps a resource error to its status and message.
// Domain sentinels are translated, anything unknown is an internal error.
func RespondWithAppError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	RespondWithError(w, appErr.Status, appErr.Message, nil)
}

// RespondErrorWithDetails sends a resource error with validation details
func RespondErrorWithDetails(w http.ResponseWriter, err error, details []ErrorDetail) {
	appErr := toAppError(err)
	RespondWithError(w, appErr.Status, appErr.Message, details)
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrDrinkNotFound), errors.Is(err, domain.ErrNoDrinks):
		return apperrors.NewNotFoundError(err)
	case errors.Is(err, domain.ErrInvalidDrink), errors.Is(err, domain.ErrDrinkAlreadyExists):
		return apperrors.NewUnprocessableError(err)
	}
	return apperrors.NewInternalError(err)
}
