package catalog

import (
	"strings"

	"github.com/setorcuan/backend/internal/domain/shared"
)

// Location is a drop-off point where deposits are collected
type Location struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Address   string
	Phone     string
	OpenTime  string
	CloseTime string
}

// NewLocation creates a location after checking coordinates
func NewLocation(id, name string, lat, lng float64, address string) (*Location, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return nil, shared.NewValidationError("location ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("location name cannot be empty")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, shared.NewValidationError("coordinates out of range")
	}
	return &Location{
		ID:        id,
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
		Address:   strings.TrimSpace(address),
		OpenTime:  "08:00",
		CloseTime: "17:00",
	}, nil
}
