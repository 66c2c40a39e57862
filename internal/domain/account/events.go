package account

import (
	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
)

const (
	AggregateTypeUser = "User"

	EventTypeUserRegistered = "UserRegistered"
	EventTypeBalanceChanged = "BalanceChanged"
)

// UserRegisteredEvent is raised when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Username:        u.Username,
		Role:            u.Role,
	}
}

// BalanceChangedEvent is raised whenever a user's point balance moves
type BalanceChangedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID `json:"user_id"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	Reason        string    `json:"reason"`
}

// NewBalanceChangedEvent creates a BalanceChangedEvent
func NewBalanceChangedEvent(u *User, prev, next Ledger, reason string) *BalanceChangedEvent {
	return &BalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceChanged, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		BalanceBefore:   prev.TotalCoins,
		BalanceAfter:    next.TotalCoins,
		Reason:          reason,
	}
}

// Owner returns the user whose balance changed
func (e *BalanceChangedEvent) Owner() uuid.UUID {
	return e.UserID
}
