package domain

import "errors"

var (
	// ErrDrinkNotFound is returned when no drink matches the requested id
	ErrDrinkNotFound = errors.New("drink not found")

	// ErrDrinkAlreadyExists is returned when a drink with the same title already exists
	ErrDrinkAlreadyExists = errors.New("drink already exists")

	// ErrNoDrinks is returned when the menu is empty
	ErrNoDrinks = errors.New("no drinks available")

	// ErrInvalidDrink is returned when a drink payload is missing required fields
	ErrInvalidDrink = errors.New("invalid drink")

	// ErrKeyNotFound is returned when no signing key matches a key id
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrKeySetUnavailable is returned when the signing key set cannot be fetched
	ErrKeySetUnavailable = errors.New("signing key set unavailable")
)
