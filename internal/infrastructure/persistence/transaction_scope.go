package persistence

import (
	"context"

	appaccount "github.com/setorcuan/backend/internal/application/account"
	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"gorm.io/gorm"
)

// GormExchangeTransactionScope implements the exchange TransactionScope using
// GORM transactions.
type GormExchangeTransactionScope struct {
	db *gorm.DB
}

// NewGormExchangeTransactionScope creates a new GormExchangeTransactionScope.
func NewGormExchangeTransactionScope(db *gorm.DB) *GormExchangeTransactionScope {
	return &GormExchangeTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormExchangeTransactionScope) Execute(ctx context.Context, fn func(repos appexchange.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormAccountTransactionScope implements the account TransactionScope using
// GORM transactions.
type GormAccountTransactionScope struct {
	db *gorm.DB
}

// NewGormAccountTransactionScope creates a new GormAccountTransactionScope.
func NewGormAccountTransactionScope(db *gorm.DB) *GormAccountTransactionScope {
	return &GormAccountTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormAccountTransactionScope) Execute(ctx context.Context, fn func(repos appaccount.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Users() account.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) Audit() account.AuditRepository {
	return NewGormAuditRepository(r.tx)
}

func (r *gormTransactionalRepositories) Deposits() exchange.DepositRepository {
	return NewGormDepositRepository(r.tx)
}

func (r *gormTransactionalRepositories) Withdrawals() exchange.WithdrawalRepository {
	return NewGormWithdrawalRepository(r.tx)
}

var (
	_ appexchange.TransactionScope          = (*GormExchangeTransactionScope)(nil)
	_ appaccount.TransactionScope           = (*GormAccountTransactionScope)(nil)
	_ appexchange.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appaccount.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
)
