package exchange

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the persisted state of a withdrawal
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusCancelled  WithdrawalStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusProcessing, WithdrawalStatusCompleted, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the withdrawal can no longer change
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusCancelled
}

// IsOutstanding reports whether the withdrawal still awaits an admin
func (s WithdrawalStatus) IsOutstanding() bool {
	return s == WithdrawalStatusPending || s == WithdrawalStatusProcessing
}

// Payout is the e-wallet destination captured at submission
type Payout struct {
	Method  string
	Account string
}

// Withdrawal is a customer's request to cash out points.
// The balance is only debited when the withdrawal is completed.
type Withdrawal struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID
	PointAmount    int64
	CurrencyAmount decimal.Decimal
	Payout         Payout
	Status         WithdrawalStatus
	ProofURL       *string
	ProcessedBy    *uuid.UUID
	ResolvedAt     *time.Time
	Note           string
}

// NewWithdrawal creates a pending withdrawal.
// rate converts one point into currency.
func NewWithdrawal(userID uuid.UUID, pointAmount int64, rate decimal.Decimal, payout Payout) (*Withdrawal, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user ID cannot be empty")
	}
	if pointAmount <= 0 {
		return nil, shared.NewValidationError("point amount must be greater than zero")
	}
	if !rate.IsPositive() {
		return nil, shared.NewValidationError("conversion rate must be positive")
	}

	w := &Withdrawal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		PointAmount:       pointAmount,
		CurrencyAmount:    decimal.NewFromInt(pointAmount).Mul(rate).Round(2),
		Payout:            payout,
		Status:            WithdrawalStatusPending,
	}
	w.AddDomainEvent(NewWithdrawalSubmittedEvent(w))
	return w, nil
}

// NormalizedStatus returns the display status
func (w *Withdrawal) NormalizedStatus() Status {
	return NormalizeStatus(string(w.Status))
}

// HasProof reports whether a proof reference is attached
func (w *Withdrawal) HasProof() bool {
	return w.ProofURL != nil && *w.ProofURL != ""
}

// MarkProcessing moves a pending withdrawal into processing
func (w *Withdrawal) MarkProcessing(adminID uuid.UUID) error {
	if w.Status != WithdrawalStatusPending {
		return shared.NewInvalidTransitionError(string(w.Status), string(WithdrawalStatusProcessing))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("processing admin is required")
	}
	now := time.Now()
	w.Status = WithdrawalStatusProcessing
	w.ProcessedBy = &adminID
	w.Touch(now)
	w.AddDomainEvent(NewWithdrawalProcessingEvent(w))
	return nil
}

// AttachProof stores a proof reference on an outstanding withdrawal
func (w *Withdrawal) AttachProof(proofURL string) error {
	if !w.Status.IsOutstanding() {
		return shared.NewInvalidTransitionError(string(w.Status), "proof attached")
	}
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return shared.ErrMissingProof
	}
	w.ProofURL = &proofURL
	w.Touch(time.Now())
	return nil
}

// MarkCompleted finishes the payout. proofURL may be empty when a proof
// was attached earlier. The caller debits the ledger in the same transaction.
func (w *Withdrawal) MarkCompleted(adminID uuid.UUID, proofURL string) error {
	if !w.Status.IsOutstanding() {
		return shared.NewInvalidTransitionError(string(w.Status), string(WithdrawalStatusCompleted))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("processing admin is required")
	}
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		if !w.HasProof() {
			return shared.ErrMissingProof
		}
		proofURL = *w.ProofURL
	}

	now := time.Now()
	w.Status = WithdrawalStatusCompleted
	w.ProofURL = &proofURL
	w.ProcessedBy = &adminID
	w.ResolvedAt = &now
	w.Touch(now)
	w.AddDomainEvent(NewWithdrawalCompletedEvent(w))
	return nil
}

// MarkCancelled rejects the withdrawal
func (w *Withdrawal) MarkCancelled(adminID uuid.UUID, note string) error {
	if !w.Status.IsOutstanding() {
		return shared.NewInvalidTransitionError(string(w.Status), string(WithdrawalStatusCancelled))
	}
	if adminID == uuid.Nil {
		return shared.NewValidationError("cancelling admin is required")
	}
	now := time.Now()
	w.Status = WithdrawalStatusCancelled
	w.ProcessedBy = &adminID
	w.ResolvedAt = &now
	w.Note = strings.TrimSpace(note)
	w.Touch(now)
	w.AddDomainEvent(NewWithdrawalCancelledEvent(w))
	return nil
}
