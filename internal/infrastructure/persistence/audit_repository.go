package persistence

import (
	"context"
	"fmt"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository stores point adjustment audit entries. Entries are never updated.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *account.AuditEntry) error {
	return r.db.WithContext(ctx).Create(models.AuditEntryModelFromDomain(entry)).Error
}

// FindAll lists audit entries newest first, optionally filtered by actor or target
func (r *GormAuditRepository) FindAll(ctx context.Context, filter account.AuditFilter) ([]account.AuditEntry, int64, error) {
	f := filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.AuditEntryModel{})
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.TargetID != nil {
		query = query.Where("target_id = ?", *filter.TargetID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(f.OrderBy, AuditSortFields, "created_at")
	orderDir := ValidateSortOrder(f.OrderDir)

	var rows []models.AuditEntryModel
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]account.AuditEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

var _ account.AuditRepository = (*GormAuditRepository)(nil)
