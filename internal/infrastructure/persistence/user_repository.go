package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements account.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id.String())
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a user with a row lock held until the surrounding transaction ends
func (r *GormUserRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id.String())
	}
	return model.ToDomain(), nil
}

// FindByUsernameOrEmail finds a user by case-insensitive username or email
func (r *GormUserRepository) FindByUsernameOrEmail(ctx context.Context, login string) (*account.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, shared.NewNotFoundError("user", login)
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR email = ?", login, login).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "user", login)
	}
	return model.ToDomain(), nil
}

// ExistsByUsername checks username availability, ignoring case
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks email availability
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *account.User) error {
	if err := r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "username or email is already registered")
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (version check).
// The domain has already incremented the version, so the row must still hold Version-1.
func (r *GormUserRepository) SaveWithLock(ctx context.Context, user *account.User) error {
	m := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND version = ?", user.ID, user.Version-1).
		Updates(map[string]any{
			"password_hash":     m.PasswordHash,
			"role":              m.Role,
			"total_coins":       m.TotalCoins,
			"total_kg":          m.TotalKg,
			"coin_exchanged":    m.CoinExchanged,
			"full_name":         m.FullName,
			"whatsapp":          m.WhatsApp,
			"payout_method":     m.PayoutMethod,
			"payout_account":    m.PayoutAccount,
			"profile_completed": m.ProfileDone,
			"version":           m.Version,
			"updated_at":        m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return optimisticLockFailed("user")
	}
	return nil
}

// FindAll lists users, newest first unless the filter sorts otherwise
func (r *GormUserRepository) FindAll(ctx context.Context, filter account.UserFilter) ([]account.User, int64, error) {
	f := filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		query = query.Where("LOWER(username) LIKE ? OR email LIKE ? OR LOWER(full_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(f.OrderBy, UserSortFields, "created_at")
	orderDir := ValidateSortOrder(f.OrderDir)

	var rows []models.UserModel
	if err := query.
		Order(fmt.Sprintf("%s %s, id %s", orderBy, orderDir, orderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]account.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

var _ account.UserRepository = (*GormUserRepository)(nil)
