package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDepositRepository implements exchange.DepositRepository using GORM
type GormDepositRepository struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a new GormDepositRepository
func NewGormDepositRepository(db *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: db}
}

// FindByID finds a deposit by ID
func (r *GormDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*exchange.Deposit, error) {
	var model models.DepositModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "deposit", id.String())
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a deposit with a row lock for the rest of the transaction
func (r *GormDepositRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*exchange.Deposit, error) {
	var model models.DepositModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "deposit", id.String())
	}
	return model.ToDomain(), nil
}

// Create inserts a new deposit. A second pending deposit for the same user
// violates uq_deposits_user_pending and is reported as a validation error.
func (r *GormDepositRepository) Create(ctx context.Context, d *exchange.Deposit) error {
	if err := r.db.WithContext(ctx).Create(models.DepositModelFromDomain(d)).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewValidationError("a pending deposit already exists for this user")
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDepositRepository) SaveWithLock(ctx context.Context, d *exchange.Deposit) error {
	result := r.db.WithContext(ctx).
		Model(&models.DepositModel{}).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(map[string]any{
			"status":       d.Status,
			"validated_by": d.ValidatedBy,
			"resolved_at":  d.ResolvedAt,
			"note":         d.Note,
			"version":      d.Version,
			"updated_at":   d.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("deposit")
	}
	return nil
}

// HasOutstanding reports whether the user has a pending deposit
func (r *GormDepositRepository) HasOutstanding(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DepositModel{}).
		Where("user_id = ? AND status = ?", userID, exchange.DepositStatusPending).
		Count(&count).Error
	return count > 0, err
}

var _ exchange.DepositRepository = (*GormDepositRepository)(nil)
