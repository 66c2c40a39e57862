package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/shopspring/decimal"
)

// UserModel is the persistence model for the User aggregate.
// The ledger columns live on the users row so balance changes lock a single row.
type UserModel struct {
	AggregateModel
	Username      string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email         string               `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash  string               `gorm:"type:varchar(255);not null"`
	Role          account.Role         `gorm:"type:varchar(20);not null;default:'customer'"`
	TotalCoins    int64                `gorm:"not null;default:0;check:chk_users_total_coins,total_coins >= 0"`
	TotalKg       decimal.Decimal      `gorm:"type:decimal(12,3);not null;default:0"`
	CoinExchanged int64                `gorm:"not null;default:0"`
	FullName      string               `gorm:"type:varchar(100)"`
	WhatsApp      string               `gorm:"column:whatsapp;type:varchar(20)"`
	PayoutMethod  account.PayoutMethod `gorm:"type:varchar(20);not null;default:'none'"`
	PayoutAccount string               `gorm:"type:varchar(50)"`
	ProfileDone   bool                 `gorm:"column:profile_completed;not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *account.User {
	return &account.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Ledger: account.Ledger{
			TotalCoins:    m.TotalCoins,
			TotalKg:       m.TotalKg,
			CoinExchanged: m.CoinExchanged,
		},
		Profile: account.Profile{
			FullName:      m.FullName,
			WhatsApp:      m.WhatsApp,
			PayoutMethod:  m.PayoutMethod,
			PayoutAccount: m.PayoutAccount,
			Completed:     m.ProfileDone,
		},
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *account.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.TotalCoins = u.Ledger.TotalCoins
	m.TotalKg = u.Ledger.TotalKg
	m.CoinExchanged = u.Ledger.CoinExchanged
	m.FullName = u.Profile.FullName
	m.WhatsApp = u.Profile.WhatsApp
	m.PayoutMethod = u.Profile.PayoutMethod
	m.PayoutAccount = u.Profile.PayoutAccount
	m.ProfileDone = u.Profile.Completed
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *account.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// AuditEntryModel is an append-only record of an admin point adjustment.
type AuditEntryModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Action        string    `gorm:"type:varchar(50);not null"`
	TargetID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        int64     `gorm:"not null"`
	BalanceBefore int64     `gorm:"not null"`
	BalanceAfter  int64     `gorm:"not null"`
	Reason        string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain AuditEntry.
func (m *AuditEntryModel) ToDomain() account.AuditEntry {
	return account.AuditEntry{
		ID:            m.ID,
		ActorID:       m.ActorID,
		Action:        m.Action,
		TargetID:      m.TargetID,
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// AuditEntryModelFromDomain creates a persistence model from a domain AuditEntry.
func AuditEntryModelFromDomain(e *account.AuditEntry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:            e.ID,
		ActorID:       e.ActorID,
		Action:        e.Action,
		TargetID:      e.TargetID,
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
	}
}
