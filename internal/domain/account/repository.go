package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDForUpdate loads the user and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*User, error)

	FindByUsernameOrEmail(ctx context.Context, login string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user
	Create(ctx context.Context, user *User) error

	// SaveWithLock persists the user if its stored version is Version-1,
	// otherwise returns ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, user *User) error

	// FindAll lists users for the admin directory
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)
}

// UserFilter narrows the admin user directory. Search matches username,
// email and full name.
type UserFilter struct {
	shared.Filter
	Role *Role
}

// AuditFilter narrows an audit listing
type AuditFilter struct {
	shared.Filter
	ActorID  *uuid.UUID
	TargetID *uuid.UUID
}

// AuditRepository stores admin audit entries
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	FindAll(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
