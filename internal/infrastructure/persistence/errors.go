package persistence

import (
	"errors"

	"github.com/setorcuan/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound domain error and passes other errors through.
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// optimisticLockFailed is returned when a versioned UPDATE touched no rows.
func optimisticLockFailed(entity string) error {
	return shared.NewDomainError(shared.CodeConcurrencyConflict, entity+" was modified by another transaction")
}
