package exchange

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DepositStatus is the persisted state of a deposit
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusValidated DepositStatus = "validated"
	DepositStatusCancelled DepositStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositStatusPending, DepositStatusValidated, DepositStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the deposit can no longer change
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusValidated || s == DepositStatusCancelled
}

// MaxDepositWeightKg bounds a single deposit
var MaxDepositWeightKg = decimal.NewFromInt(1000)

var maxPoints = decimal.NewFromInt(math.MaxInt64)

// Deposit is a customer's request to exchange recycled waste for points.
// Points are computed once at submission and never recomputed.
type Deposit struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	Category    string
	WeightKg    decimal.Decimal
	PricePerKg  int64
	Points      int64
	LocationID  string
	Status      DepositStatus
	ValidatedBy *uuid.UUID
	ResolvedAt  *time.Time
	Note        string
}

// NewDeposit creates a pending deposit with a snapshot of the current price
func NewDeposit(userID uuid.UUID, category string, weightKg decimal.Decimal, pricePerKg int64, locationID string) (*Deposit, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	locationID = strings.TrimSpace(locationID)

	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user ID cannot be empty")
	}
	if category == "" {
		return nil, shared.NewValidationError("category cannot be empty")
	}
	if locationID == "" {
		return nil, shared.NewValidationError("location cannot be empty")
	}
	if !weightKg.IsPositive() {
		return nil, shared.NewValidationError("weight must be greater than zero")
	}
	if weightKg.GreaterThan(MaxDepositWeightKg) {
		return nil, shared.NewValidationError("weight cannot exceed %s kg", MaxDepositWeightKg)
	}
	if pricePerKg <= 0 {
		return nil, shared.NewValidationError("price per kg must be positive")
	}

	worth := weightKg.Mul(decimal.NewFromInt(pricePerKg)).Floor()
	if worth.GreaterThan(maxPoints) {
		return nil, shared.NewValidationError("deposit is worth more than %s points", maxPoints)
	}
	points := worth.IntPart()
	if points <= 0 {
		return nil, shared.NewValidationError("deposit is worth no points")
	}

	d := &Deposit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Category:          category,
		WeightKg:          weightKg,
		PricePerKg:        pricePerKg,
		Points:            points,
		LocationID:        locationID,
		Status:            DepositStatusPending,
	}
	d.AddDomainEvent(NewDepositSubmittedEvent(d))
	return d, nil
}

// NormalizedStatus returns the display status
func (d *Deposit) NormalizedStatus() Status {
	return NormalizeStatus(string(d.Status))
}

// MarkValidated accepts the deposit. The caller credits the ledger in the
// same transaction.
func (d *Deposit) MarkValidated(adminID uuid.UUID) error {
	if d.Status != DepositStatusPending {
		return shared.NewInvalidTransitionError(string(d.Status), string(DepositStatusValidated))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("validating admin is required")
	}
	now := time.Now()
	d.Status = DepositStatusValidated
	d.ValidatedBy = &adminID
	d.ResolvedAt = &now
	d.Touch(now)
	d.AddDomainEvent(NewDepositValidatedEvent(d))
	return nil
}

// MarkCancelled rejects the deposit
func (d *Deposit) MarkCancelled(adminID uuid.UUID, note string) error {
	if d.Status != DepositStatusPending {
		return shared.NewInvalidTransitionError(string(d.Status), string(DepositStatusCancelled))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("cancelling admin is required")
	}
	now := time.Now()
	d.Status = DepositStatusCancelled
	d.ResolvedAt = &now
	d.Note = strings.TrimSpace(note)
	d.Touch(now)
	d.AddDomainEvent(NewDepositCancelledEvent(d))
	return nil
}
