package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

// DepositModel is the persistence model for the Deposit aggregate.
// The partial unique index allows at most one pending deposit per user.
type DepositModel struct {
	AggregateModel
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index;uniqueIndex:uq_deposits_user_pending,where:status = 'pending'"`
	Category    string                 `gorm:"type:varchar(50);not null"`
	WeightKg    decimal.Decimal        `gorm:"type:decimal(10,3);not null"`
	PricePerKg  int64                  `gorm:"not null"`
	Points      int64                  `gorm:"not null"`
	LocationID  string                 `gorm:"type:varchar(50);not null"`
	Status      exchange.DepositStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ValidatedBy *uuid.UUID             `gorm:"type:uuid"`
	ResolvedAt  *time.Time
	Note        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DepositModel) TableName() string {
	return "deposits"
}

// ToDomain converts the persistence model to a domain Deposit.
func (m *DepositModel) ToDomain() *exchange.Deposit {
	return &exchange.Deposit{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Category:          m.Category,
		WeightKg:          m.WeightKg,
		PricePerKg:        m.PricePerKg,
		Points:            m.Points,
		LocationID:        m.LocationID,
		Status:            m.Status,
		ValidatedBy:       m.ValidatedBy,
		ResolvedAt:        m.ResolvedAt,
		Note:              m.Note,
	}
}

// DepositModelFromDomain creates a persistence model from a domain Deposit.
func DepositModelFromDomain(d *exchange.Deposit) *DepositModel {
	m := &DepositModel{
		UserID:      d.UserID,
		Category:    d.Category,
		WeightKg:    d.WeightKg,
		PricePerKg:  d.PricePerKg,
		Points:      d.Points,
		LocationID:  d.LocationID,
		Status:      d.Status,
		ValidatedBy: d.ValidatedBy,
		ResolvedAt:  d.ResolvedAt,
		Note:        d.Note,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}

// WithdrawalModel is the persistence model for the Withdrawal aggregate.
// The partial unique index allows at most one outstanding withdrawal per user.
type WithdrawalModel struct {
	AggregateModel
	UserID         uuid.UUID                 `gorm:"type:uuid;not null;index;uniqueIndex:uq_withdrawals_user_outstanding,where:status <> 'completed' AND status <> 'cancelled'"`
	PointAmount    int64                     `gorm:"not null"`
	CurrencyAmount decimal.Decimal           `gorm:"type:decimal(14,2);not null"`
	PayoutMethod   string                    `gorm:"type:varchar(20);not null"`
	PayoutAccount  string                    `gorm:"type:varchar(50);not null"`
	Status         exchange.WithdrawalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ProofURL       *string                   `gorm:"type:varchar(500)"`
	ProcessedBy    *uuid.UUID                `gorm:"type:uuid"`
	ResolvedAt     *time.Time
	Note           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WithdrawalModel) TableName() string {
	return "withdrawals"
}

// ToDomain converts the persistence model to a domain Withdrawal.
func (m *WithdrawalModel) ToDomain() *exchange.Withdrawal {
	return &exchange.Withdrawal{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		PointAmount:       m.PointAmount,
		CurrencyAmount:    m.CurrencyAmount,
		Payout: exchange.Payout{
			Method:  m.PayoutMethod,
			Account: m.PayoutAccount,
		},
		Status:      m.Status,
		ProofURL:    m.ProofURL,
		ProcessedBy: m.ProcessedBy,
		ResolvedAt:  m.ResolvedAt,
		Note:        m.Note,
	}
}

// WithdrawalModelFromDomain creates a persistence model from a domain Withdrawal.
func WithdrawalModelFromDomain(w *exchange.Withdrawal) *WithdrawalModel {
	m := &WithdrawalModel{
		UserID:         w.UserID,
		PointAmount:    w.PointAmount,
		CurrencyAmount: w.CurrencyAmount,
		PayoutMethod:   w.Payout.Method,
		PayoutAccount:  w.Payout.Account,
		Status:         w.Status,
		ProofURL:       w.ProofURL,
		ProcessedBy:    w.ProcessedBy,
		ResolvedAt:     w.ResolvedAt,
		Note:           w.Note,
	}
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	return m
}
