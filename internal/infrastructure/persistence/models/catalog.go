package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/catalog"
)

// RecyclableModel stores the current price per kg of a recyclable category.
type RecyclableModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	PricePerKg int64     `gorm:"not null;check:chk_recyclables_price,price_per_kg > 0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecyclableModel) TableName() string {
	return "recyclables"
}

// ToDomain converts the persistence model to a domain Recyclable.
func (m *RecyclableModel) ToDomain() catalog.Recyclable {
	return catalog.Recyclable{
		ID:         m.ID,
		Name:       m.Name,
		PricePerKg: m.PricePerKg,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// RecyclableModelFromDomain creates a persistence model from a domain Recyclable.
func RecyclableModelFromDomain(r *catalog.Recyclable) *RecyclableModel {
	return &RecyclableModel{
		ID:         r.ID,
		Name:       r.Name,
		PricePerKg: r.PricePerKg,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// LocationModel is a drop-off point. IDs are human-readable slugs such as "lokasi1".
type LocationModel struct {
	ID        string  `gorm:"type:varchar(50);primaryKey"`
	Name      string  `gorm:"type:varchar(200);not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string  `gorm:"type:text"`
	Phone     string  `gorm:"type:varchar(20)"`
	OpenTime  string  `gorm:"type:varchar(5)"`
	CloseTime string  `gorm:"type:varchar(5)"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location.
func (m *LocationModel) ToDomain() catalog.Location {
	return catalog.Location{
		ID:        m.ID,
		Name:      m.Name,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Address:   m.Address,
		Phone:     m.Phone,
		OpenTime:  m.OpenTime,
		CloseTime: m.CloseTime,
	}
}

// LocationModelFromDomain creates a persistence model from a domain Location.
func LocationModelFromDomain(l *catalog.Location) *LocationModel {
	return &LocationModel{
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

// AllModels lists every persisted model, used by tests that build the schema with AutoMigrate.
func AllModels() []any {
	return []any{
		&UserModel{},
		&AuditEntryModel{},
		&DepositModel{},
		&WithdrawalModel{},
		&RecyclableModel{},
		&LocationModel{},
	}
}
