package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recyclable is one row of the price table: points paid per kilogram of a
// waste category
type Recyclable struct {
	ID         uuid.UUID
	Name       string
	PricePerKg int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MaxPricePerKg bounds the price table
const MaxPricePerKg int64 = 1_000_000_000

var titleCaser = cases.Title(language.Indonesian)

// NormalizeCategory returns the lookup key for a category name
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewRecyclable creates a price table entry
func NewRecyclable(name string, pricePerKg int64) (*Recyclable, error) {
	key := NormalizeCategory(name)
	if key == "" {
		return nil, shared.NewValidationError("category name cannot be empty")
	}
	if len(key) > 50 {
		return nil, shared.NewValidationError("category name cannot exceed 50 characters")
	}
	if err := validatePrice(pricePerKg); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Recyclable{
		ID:         uuid.New(),
		Name:       key,
		PricePerKg: pricePerKg,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// DisplayName returns the category name in title case
func (r *Recyclable) DisplayName() string {
	return titleCaser.String(r.Name)
}

// UpdatePrice changes the price. Existing deposits keep their snapshot.
func (r *Recyclable) UpdatePrice(pricePerKg int64) error {
	if err := validatePrice(pricePerKg); err != nil {
		return err
	}
	r.PricePerKg = pricePerKg
	r.UpdatedAt = time.Now()
	return nil
}

func validatePrice(pricePerKg int64) error {
	if pricePerKg <= 0 {
		return shared.NewValidationError("price per kg must be positive")
	}
	if pricePerKg > MaxPricePerKg {
		return shared.NewValidationError("price per kg cannot exceed %d", MaxPricePerKg)
	}
	return nil
}
