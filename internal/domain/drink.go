package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// Ingredient is one layer of a drink recipe
type Ingredient struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
	Parts int    `json:"parts" validate:"gte=1"`
}

// Recipe is the ordered list of ingredients of a drink.
// A single ingredient object is accepted in place of a list.
type Recipe []Ingredient

// UnmarshalJSON accepts either an ingredient object or an array of them
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single Ingredient
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*r = Recipe{single}
		return nil
	}
	var list []Ingredient
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*r = list
	return nil
}

// Drink represents a drink on the menu
type Drink struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Recipe    Recipe    `json:"recipe"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShortIngredient is the public view of an ingredient, without its name
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// DrinkShort is the public representation of a drink
type DrinkShort struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// DrinkLong is the detailed representation of a drink
type DrinkLong struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// NewDrink creates a new drink instance
func NewDrink(title string, recipe Recipe) *Drink {
	now := time.Now()
	return &Drink{
		Title:     title,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Short returns the public representation
func (d *Drink) Short() DrinkShort {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, ing := range d.Recipe {
		recipe[i] = ShortIngredient{Color: ing.Color, Parts: ing.Parts}
	}
	return DrinkShort{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the detailed representation
func (d *Drink) Long() DrinkLong {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return DrinkLong{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// DrinkRepository defines the interface for drink data access
type DrinkRepository interface {
	// List returns every drink ordered by id
	List(ctx context.Context) ([]*Drink, error)

	// FindByID finds a drink by id
	FindByID(ctx context.Context, id int64) (*Drink, error)

	// Insert stores a new drink and sets its id
	Insert(ctx context.Context, drink *Drink) error

	// Update stores the title and recipe of an existing drink
	Update(ctx context.Context, drink *Drink) error

	// Delete removes a drink by id
	Delete(ctx context.Context, id int64) error
}

// DrinkService defines the drink use cases exposed to the HTTP layer
type DrinkService interface {
	ListDrinks(ctx context.Context) ([]*Drink, error)
	CreateDrink(ctx context.Context, title string, recipe Recipe) (*Drink, error)
	UpdateDrink(ctx context.Context, id int64, title *string, recipe Recipe) (*Drink, error)
	DeleteDrink(ctx context.Context, id int64) error
}
