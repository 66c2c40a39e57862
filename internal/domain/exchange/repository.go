package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DepositRepository defines persistence operations for deposits
type DepositRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deposit, error)

	// FindByIDForUpdate loads the deposit and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Deposit, error)

	Create(ctx context.Context, d *Deposit) error

	// SaveWithLock persists the deposit if its stored version is Version-1,
	// otherwise returns ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, d *Deposit) error

	// HasOutstanding reports whether the user has a pending deposit
	HasOutstanding(ctx context.Context, userID uuid.UUID) (bool, error)
}

// WithdrawalRepository defines persistence operations for withdrawals
type WithdrawalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Withdrawal, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Withdrawal, error)
	Create(ctx context.Context, w *Withdrawal) error
	SaveWithLock(ctx context.Context, w *Withdrawal) error

	// HasOutstanding reports whether the user has a pending or processing withdrawal
	HasOutstanding(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TransactionRecord is a read-only projection of a deposit or withdrawal
// joined with its owner's username
type TransactionRecord struct {
	ID             uuid.UUID
	Kind           Kind
	UserID         uuid.UUID
	Username       string
	RawStatus      string
	Points         int64
	Category       string
	WeightKg       decimal.NullDecimal
	CurrencyAmount decimal.NullDecimal
	LocationID     string
	ProofURL       string
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}

// Status returns the normalized status of the record
func (r TransactionRecord) Status() Status {
	return NormalizeStatus(r.RawStatus)
}

// TransactionQuery narrows a transaction listing
type TransactionQuery struct {
	shared.Filter
	UserID *uuid.UUID
	Status *Status
	Kind   *Kind
}

// TransactionReader serves the read views over both transaction kinds
type TransactionReader interface {
	// List returns records newest first along with the total match count
	List(ctx context.Context, q TransactionQuery) ([]TransactionRecord, int64, error)

	// CountByStatus counts a user's records per raw status and kind
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[Status]int64, error)
}
