package dto

import (
	"net/http"

	"github.com/manorfm/coffee-shop/internal/domain"
)

// CreateDrinkRequest is the body of POST /drinks. Titles are limited to the
// width of the drinks.title column.
type CreateDrinkRequest struct {
	Title  string        `json:"title" validate:"required,max=80"`
	Recipe domain.Recipe `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateDrinkRequest is the body of PATCH /drinks/{id}. Omitted fields are left unchanged.
type UpdateDrinkRequest struct {
	Title  *string       `json:"title" validate:"omitempty,min=1,max=80"`
	Recipe domain.Recipe `json:"recipe" validate:"omitempty,min=1,dive"`
}

// ShortDrinksResponse lists drinks in their public form
type ShortDrinksResponse struct {
	Success       bool                `json:"success"`
	StatusCode    int                 `json:"status_code"`
	StatusMessage string              `json:"status_message"`
	Drinks        []domain.DrinkShort `json:"drinks"`
}

// LongDrinksResponse lists drinks with their full recipe
type LongDrinksResponse struct {
	Success       bool               `json:"success"`
	StatusCode    int                `json:"status_code"`
	StatusMessage string             `json:"status_message"`
	Drinks        []domain.DrinkLong `json:"drinks"`
}

// DeleteDrinkResponse confirms a deletion
type DeleteDrinkResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Delete        int64  `json:"delete"`
}

func NewDeleteDrinkResponse(id int64) *DeleteDrinkResponse {
	return &DeleteDrinkResponse{
		Success:       true,
		StatusCode:    http.StatusOK,
		StatusMessage: http.StatusText(http.StatusOK),
		Delete:        id,
	}
}

func NewShortDrinksResponse(drinks []*domain.Drink) *ShortDrinksResponse {
	resp := &ShortDrinksResponse{
		Success:       true,
		StatusCode:    http.StatusOK,
		StatusMessage: http.StatusText(http.StatusOK),
		Drinks:        make([]domain.DrinkShort, len(drinks)),
	}
	for i, d := range drinks {
		resp.Drinks[i] = d.Short()
	}
	return resp
}

func NewLongDrinksResponse(drinks ...*domain.Drink) *LongDrinksResponse {
	resp := &LongDrinksResponse{
		Success:       true,
		StatusCode:    http.StatusOK,
		StatusMessage: http.StatusText(http.StatusOK),
		Drinks:        make([]domain.DrinkLong, len(drinks)),
	}
	for i, d := range drinks {
		resp.Drinks[i] = d.Long()
	}
	return resp
}
