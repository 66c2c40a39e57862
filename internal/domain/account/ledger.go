package account

import (
	"math"

	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ledger holds a user's cumulative point and weight totals.
// It is a value object: every mutation returns a new Ledger.
type Ledger struct {
	TotalCoins    int64
	TotalKg       decimal.Decimal
	CoinExchanged int64
}

// NewLedger returns an empty ledger
func NewLedger() Ledger {
	return Ledger{TotalKg: decimal.Zero}
}

// Credit records points earned from recycled weight
func (l Ledger) Credit(points int64, weightKg decimal.Decimal) (Ledger, error) {
	if points <= 0 {
		return l, shared.NewValidationError("credited points must be positive")
	}
	if !weightKg.IsPositive() {
		return l, shared.NewValidationError("credited weight must be positive")
	}
	coins, err := addPoints(l.TotalCoins, points)
	if err != nil {
		return l, err
	}
	exchanged, err := addPoints(l.CoinExchanged, points)
	if err != nil {
		return l, err
	}
	return Ledger{
		TotalCoins:    coins,
		TotalKg:       l.TotalKg.Add(weightKg),
		CoinExchanged: exchanged,
	}, nil
}

// Debit removes points from the balance
func (l Ledger) Debit(points int64) (Ledger, error) {
	if points <= 0 {
		return l, shared.NewValidationError("debited points must be positive")
	}
	if points > l.TotalCoins {
		return l, shared.NewInsufficientBalanceError(l.TotalCoins, points)
	}
	next := l
	next.TotalCoins = l.TotalCoins - points
	return next, nil
}

// Add increases the balance without touching the earned totals
func (l Ledger) Add(points int64) (Ledger, error) {
	if points <= 0 {
		return l, shared.NewValidationError("added points must be positive")
	}
	coins, err := addPoints(l.TotalCoins, points)
	if err != nil {
		return l, err
	}
	next := l
	next.TotalCoins = coins
	return next, nil
}

// CanCover reports whether the balance covers the given amount
func (l Ledger) CanCover(points int64) bool {
	return points <= l.TotalCoins
}

// addPoints sums two non-negative totals, refusing to wrap past MaxInt64
func addPoints(total, points int64) (int64, error) {
	if points > math.MaxInt64-total {
		return total, shared.NewValidationError("balance cannot exceed %d points", int64(math.MaxInt64))
	}
	return total + points, nil
}
