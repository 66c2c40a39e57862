package persistence

import (
	"context"

	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecyclableRepository implements catalog.RecyclableRepository using GORM
type GormRecyclableRepository struct {
	db *gorm.DB
}

// NewGormRecyclableRepository creates a new GormRecyclableRepository
func NewGormRecyclableRepository(db *gorm.DB) *GormRecyclableRepository {
	return &GormRecyclableRepository{db: db}
}

// FindByName finds a recyclable by its normalized name
func (r *GormRecyclableRepository) FindByName(ctx context.Context, name string) (*catalog.Recyclable, error) {
	key := catalog.NormalizeCategory(name)
	var model models.RecyclableModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", key).Error; err != nil {
		return nil, notFoundOr(err, "recyclable", key)
	}
	rec := model.ToDomain()
	return &rec, nil
}

// FindAll lists all recyclables ordered by name
func (r *GormRecyclableRepository) FindAll(ctx context.Context) ([]catalog.Recyclable, error) {
	var rows []models.RecyclableModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Recyclable, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Upsert inserts the recyclable or updates the price of the existing row with the same name
func (r *GormRecyclableRepository) Upsert(ctx context.Context, rec *catalog.Recyclable) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_per_kg", "updated_at"}),
	}).Create(models.RecyclableModelFromDomain(rec)).Error
}

// Count returns the number of recyclables
func (r *GormRecyclableRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RecyclableModel{}).Count(&count).Error
	return count, err
}

var _ catalog.RecyclableRepository = (*GormRecyclableRepository)(nil)

// GormLocationRepository implements catalog.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by slug
func (r *GormLocationRepository) FindByID(ctx context.Context, id string) (*catalog.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "location", id)
	}
	loc := model.ToDomain()
	return &loc, nil
}

// FindAll lists all locations ordered by ID
func (r *GormLocationRepository) FindAll(ctx context.Context) ([]catalog.Location, error) {
	var rows []models.LocationModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Location, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts or replaces a location
func (r *GormLocationRepository) Save(ctx context.Context, loc *catalog.Location) error {
	return r.db.WithContext(ctx).Save(models.LocationModelFromDomain(loc)).Error
}

// Count returns the number of locations
func (r *GormLocationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LocationModel{}).Count(&count).Error
	return count, err
}

var _ catalog.LocationRepository = (*GormLocationRepository)(nil)
