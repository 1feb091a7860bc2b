package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// NewRequestID returns a new ULID formatted request id
func NewRequestID() string {
	return ulid.Make().String()
}

// ParseRequestID checks that id is a ULID and returns it in canonical form
func ParseRequestID(id string) (string, error) {
	parsedID, err := ulid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid ULID: %w", err)
	}
	return parsedID.String(), nil
}
