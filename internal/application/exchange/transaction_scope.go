package exchange

import (
	"context"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
)

// TransactionScope provides transactional access to the repositories a
// status transition touches. All repository operations inside fn share one
// database transaction and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the current transaction.
//
// Lock order inside a transition is always the transaction record first and
// the owning user second.
type TransactionalRepositories interface {
	Users() account.UserRepository
	Deposits() exchange.DepositRepository
	Withdrawals() exchange.WithdrawalRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// This is useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	users       account.UserRepository
	deposits    exchange.DepositRepository
	withdrawals exchange.WithdrawalRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	users account.UserRepository,
	deposits exchange.DepositRepository,
	withdrawals exchange.WithdrawalRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		users:       users,
		deposits:    deposits,
		withdrawals: withdrawals,
	}
}

// Execute runs fn with the wrapped repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Users returns the user repository.
func (s *NoOpTransactionScope) Users() account.UserRepository {
	return s.users
}

// Deposits returns the deposit repository.
func (s *NoOpTransactionScope) Deposits() exchange.DepositRepository {
	return s.deposits
}

// Withdrawals returns the withdrawal repository.
func (s *NoOpTransactionScope) Withdrawals() exchange.WithdrawalRepository {
	return s.withdrawals
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
