package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/catalog"
)

// RecyclableResponse is one price table row
type RecyclableResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	PricePerKg  int64     `json:"price_per_kg"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationResponse is a drop-off point
type LocationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone,omitempty"`
	OpenTime  string  `json:"open_time"`
	CloseTime string  `json:"close_time"`
}

// UpsertPriceRequest sets the price of a category, creating it if needed
type UpsertPriceRequest struct {
	Name       string `json:"name" binding:"required,max=50"`
	PricePerKg int64  `json:"price_per_kg" binding:"required,gt=0,lte=1000000000"`
}

// ToRecyclableResponse converts a domain Recyclable
func ToRecyclableResponse(r *catalog.Recyclable) RecyclableResponse {
	return RecyclableResponse{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName(),
		PricePerKg:  r.PricePerKg,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToLocationResponse converts a domain Location
func ToLocationResponse(l *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Address:   l.Address,
		Phone:     l.Phone,
		OpenTime:  l.OpenTime,
		CloseTime: l.CloseTime,
	}
}
