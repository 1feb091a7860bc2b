package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/manorfm/coffee-shop/internal/domain"
	apperrors "github.com/manorfm/coffee-shop/internal/domain/errors"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/dto"
	httperrors "github.com/manorfm/coffee-shop/internal/interfaces/http/errors"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/middleware/auth"
	"go.uber.org/zap"
)

type DrinkHandler struct {
	service  domain.DrinkService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewDrinkHandler(service domain.DrinkService, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// ListDrinks godoc
// @Summary List drinks
// @Description Public menu. Recipes only show the color and parts of each ingredient.
// @Tags drinks
// @Produce json
// @Success 200 {object} dto.ShortDrinksResponse
// @Failure 404 {object} httperrors.ErrorResponse
// @Failure 500 {object} httperrors.ErrorResponse
// @Router /drinks [get]
func (h *DrinkHandler) ListDrinks(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListDrinks(r.Context())
	if err != nil {
		httperrors.RespondWithAppError(w, err)
		return
	}

	httperrors.RespondWithJSON(w, http.StatusOK, dto.NewShortDrinksResponse(drinks))
}

// ListDrinksDetail godoc
// @Summary List drinks with full recipes
// @Tags drinks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LongDrinksResponse
// @Failure 401 {object} httperrors.ErrorResponse
// @Failure 403 {object} httperrors.ErrorResponse
// @Failure 404 {object} httperrors.ErrorResponse
// @Router /drinks-detail [get]
func (h *DrinkHandler) ListDrinksDetail(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListDrinks(r.Context())
	if err != nil {
		httperrors.RespondWithAppError(w, err)
		return
	}

	httperrors.RespondWithJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drinks...))
}

// CreateDrink godoc
// @Summary Create a drink
// @Tags drinks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param drink body dto.CreateDrinkRequest true "Drink"
// @Success 200 {object} dto.LongDrinksResponse
// @Failure 400 {object} httperrors.ErrorResponse
// @Failure 401 {object} httperrors.ErrorResponse
// @Failure 403 {object} httperrors.ErrorResponse
// @Failure 422 {object} httperrors.ErrorResponse
// @Router /drinks [post]
func (h *DrinkHandler) CreateDrink(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDrinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	drink, err := h.service.CreateDrink(r.Context(), req.Title, req.Recipe)
	if err != nil {
		httperrors.RespondWithAppError(w, err)
		return
	}

	h.logger.Info("Drink created by caller",
		zap.Int64("drink_id", drink.ID),
		zap.String("sub", caller(r)))
	httperrors.RespondWithJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drink))
}

// UpdateDrink godoc
// @Summary Update a drink
// @Tags drinks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drink ID"
// @Param drink body dto.UpdateDrinkRequest true "Fields to change"
// @Success 200 {object} dto.LongDrinksResponse
// @Failure 401 {object} httperrors.ErrorResponse
// @Failure 403 {object} httperrors.ErrorResponse
// @Failure 404 {object} httperrors.ErrorResponse
// @Failure 422 {object} httperrors.ErrorResponse
// @Router /drinks/{id} [patch]
func (h *DrinkHandler) UpdateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDrinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	drink, err := h.service.UpdateDrink(r.Context(), id, req.Title, req.Recipe)
	if err != nil {
		httperrors.RespondWithAppError(w, err)
		return
	}

	httperrors.RespondWithJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drink))
}

// DeleteDrink godoc
// @Summary Delete a drink
// @Tags drinks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drink ID"
// @Success 200 {object} dto.DeleteDrinkResponse
// @Failure 401 {object} httperrors.ErrorResponse
// @Failure 403 {object} httperrors.ErrorResponse
// @Failure 404 {object} httperrors.ErrorResponse
// @Router /drinks/{id} [delete]
func (h *DrinkHandler) DeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDrink(r.Context(), id); err != nil {
		httperrors.RespondWithAppError(w, err)
		return
	}

	h.logger.Info("Drink deleted by caller",
		zap.Int64("drink_id", id),
		zap.String("sub", caller(r)))
	httperrors.RespondWithJSON(w, http.StatusOK, dto.NewDeleteDrinkResponse(id))
}

// decode reads and validates a JSON body, answering the request on failure
func (h *DrinkHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.Debug("Failed to decode request body", zap.Error(err))
		httperrors.RespondWithAppError(w, apperrors.NewBadRequestError(err))
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			httperrors.RespondWithAppError(w, apperrors.NewBadRequestError(err))
			return false
		}
		var details httperrors.ValidationErrors
		for _, fe := range validationErrs {
			details.Add(fe.Namespace(), fe.Tag())
		}
		httperrors.RespondErrorWithDetails(w, apperrors.NewUnprocessableError(err), details.ToErrorDetails())
		return false
	}
	return true
}

func drinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondWithAppError(w, apperrors.NewNotFoundError(err))
		return 0, false
	}
	return id, true
}

func caller(r *http.Request) string {
	authz, ok := auth.FromContext(r.Context())
	if !ok {
		return ""
	}
	return authz.Claims.Subject()
}
