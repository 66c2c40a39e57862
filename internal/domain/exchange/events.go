package exchange

import (
	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeDeposit    = "Deposit"
	AggregateTypeWithdrawal = "Withdrawal"

	EventTypeDepositSubmitted     = "DepositSubmitted"
	EventTypeDepositValidated     = "DepositValidated"
	EventTypeDepositCancelled     = "DepositCancelled"
	EventTypeWithdrawalSubmitted  = "WithdrawalSubmitted"
	EventTypeWithdrawalProcessing = "WithdrawalProcessing"
	EventTypeWithdrawalCompleted  = "WithdrawalCompleted"
	EventTypeWithdrawalCancelled  = "WithdrawalCancelled"
)

// OwnedEvent is implemented by events that concern a single customer
type OwnedEvent interface {
	shared.DomainEvent
	Owner() uuid.UUID
}

// DepositEvent carries the deposit fields handlers need
type DepositEvent struct {
	shared.BaseDomainEvent
	DepositID uuid.UUID       `json:"deposit_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Category  string          `json:"category"`
	WeightKg  decimal.Decimal `json:"weight_kg"`
	Points    int64           `json:"points"`
	Note      string          `json:"note,omitempty"`
}

// Owner returns the customer who made the deposit
func (e *DepositEvent) Owner() uuid.UUID {
	return e.UserID
}

func newDepositEvent(eventType string, d *Deposit) *DepositEvent {
	return &DepositEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDeposit, d.ID),
		DepositID:       d.ID,
		UserID:          d.UserID,
		Category:        d.Category,
		WeightKg:        d.WeightKg,
		Points:          d.Points,
		Note:            d.Note,
	}
}

// NewDepositSubmittedEvent creates a DepositSubmitted event
func NewDepositSubmittedEvent(d *Deposit) *DepositEvent {
	return newDepositEvent(EventTypeDepositSubmitted, d)
}

// NewDepositValidatedEvent creates a DepositValidated event
func NewDepositValidatedEvent(d *Deposit) *DepositEvent {
	return newDepositEvent(EventTypeDepositValidated, d)
}

// NewDepositCancelledEvent creates a DepositCancelled event
func NewDepositCancelledEvent(d *Deposit) *DepositEvent {
	return newDepositEvent(EventTypeDepositCancelled, d)
}

// WithdrawalEvent carries the withdrawal fields handlers need
type WithdrawalEvent struct {
	shared.BaseDomainEvent
	WithdrawalID   uuid.UUID       `json:"withdrawal_id"`
	UserID         uuid.UUID       `json:"user_id"`
	PointAmount    int64           `json:"point_amount"`
	CurrencyAmount decimal.Decimal `json:"currency_amount"`
	ProofURL       string          `json:"proof_url,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// Owner returns the customer who requested the withdrawal
func (e *WithdrawalEvent) Owner() uuid.UUID {
	return e.UserID
}

func newWithdrawalEvent(eventType string, w *Withdrawal) *WithdrawalEvent {
	e := &WithdrawalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeWithdrawal, w.ID),
		WithdrawalID:    w.ID,
		UserID:          w.UserID,
		PointAmount:     w.PointAmount,
		CurrencyAmount:  w.CurrencyAmount,
		Note:            w.Note,
	}
	if w.ProofURL != nil {
		e.ProofURL = *w.ProofURL
	}
	return e
}

// NewWithdrawalSubmittedEvent creates a WithdrawalSubmitted event
func NewWithdrawalSubmittedEvent(w *Withdrawal) *WithdrawalEvent {
	return newWithdrawalEvent(EventTypeWithdrawalSubmitted, w)
}

// NewWithdrawalProcessingEvent creates a WithdrawalProcessing event
func NewWithdrawalProcessingEvent(w *Withdrawal) *WithdrawalEvent {
	return newWithdrawalEvent(EventTypeWithdrawalProcessing, w)
}

// NewWithdrawalCompletedEvent creates a WithdrawalCompleted event
func NewWithdrawalCompletedEvent(w *Withdrawal) *WithdrawalEvent {
	return newWithdrawalEvent(EventTypeWithdrawalCompleted, w)
}

// NewWithdrawalCancelledEvent creates a WithdrawalCancelled event
func NewWithdrawalCancelledEvent(w *Withdrawal) *WithdrawalEvent {
	return newWithdrawalEvent(EventTypeWithdrawalCancelled, w)
}
