package account

import (
	"context"

	"github.com/setorcuan/backend/internal/domain/account"
)

// TransactionScope runs an admin adjustment atomically: the ledger change and
// its audit entry commit together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the current transaction.
type TransactionalRepositories interface {
	Users() account.UserRepository
	Audit() account.AuditRepository
}

// NoOpTransactionScope runs the function without a real transaction.
type NoOpTransactionScope struct {
	users account.UserRepository
	audit account.AuditRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(users account.UserRepository, audit account.AuditRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{users: users, audit: audit}
}

// Execute runs fn with the wrapped repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Users returns the user repository.
func (s *NoOpTransactionScope) Users() account.UserRepository {
	return s.users
}

// Audit returns the audit repository.
func (s *NoOpTransactionScope) Audit() account.AuditRepository {
	return s.audit
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
