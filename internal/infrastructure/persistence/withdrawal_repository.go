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

// GormWithdrawalRepository implements exchange.WithdrawalRepository using GORM
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewGormWithdrawalRepository creates a new GormWithdrawalRepository
func NewGormWithdrawalRepository(db *gorm.DB) *GormWithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// FindByID finds a withdrawal by ID
func (r *GormWithdrawalRepository) FindByID(ctx context.Context, id uuid.UUID) (*exchange.Withdrawal, error) {
	var model models.WithdrawalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "withdrawal", id.String())
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a withdrawal with a row lock for the rest of the transaction
func (r *GormWithdrawalRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*exchange.Withdrawal, error) {
	var model models.WithdrawalModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "withdrawal", id.String())
	}
	return model.ToDomain(), nil
}

// Create inserts a new withdrawal request
func (r *GormWithdrawalRepository) Create(ctx context.Context, w *exchange.Withdrawal) error {
	if err := r.db.WithContext(ctx).Create(models.WithdrawalModelFromDomain(w)).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewValidationError("an outstanding withdrawal already exists for this user")
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormWithdrawalRepository) SaveWithLock(ctx context.Context, w *exchange.Withdrawal) error {
	result := r.db.WithContext(ctx).
		Model(&models.WithdrawalModel{}).
		Where("id = ? AND version = ?", w.ID, w.Version-1).
		Updates(map[string]any{
			"status":       w.Status,
			"proof_url":    w.ProofURL,
			"processed_by": w.ProcessedBy,
			"resolved_at":  w.ResolvedAt,
			"note":         w.Note,
			"version":      w.Version,
			"updated_at":   w.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("withdrawal")
	}
	return nil
}

// HasOutstanding reports whether the user has a pending or processing withdrawal
func (r *GormWithdrawalRepository) HasOutstanding(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WithdrawalModel{}).
		Where("user_id = ? AND status IN ?", userID, []exchange.WithdrawalStatus{
			exchange.WithdrawalStatusPending,
			exchange.WithdrawalStatusProcessing,
		}).
		Count(&count).Error
	return count > 0, err
}

var _ exchange.WithdrawalRepository = (*GormWithdrawalRepository)(nil)
