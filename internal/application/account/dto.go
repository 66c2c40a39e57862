package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/shopspring/decimal"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	WhatsApp string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Login    string // username or email
	Password string
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID         uuid.UUID
	TokenJTI       string
	TokenExpiresIn time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput replaces the user's contact and payout details
type UpdateProfileInput struct {
	UserID        uuid.UUID
	FullName      string
	WhatsApp      string
	PayoutMethod  string
	PayoutAccount string
}

// AdjustPointsInput is an admin's manual balance correction
type AdjustPointsInput struct {
	ActorID   uuid.UUID
	UserID    uuid.UUID
	Amount    int64
	Operation string
	Reason    string
}

// AuditListFilter narrows the audit log listing
type AuditListFilter struct {
	ActorID  *uuid.UUID
	TargetID *uuid.UUID
	Page     int
	PageSize int
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// UserResponse is the user as returned to its owner or an admin
type UserResponse struct {
	ID               uuid.UUID       `json:"id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Role             account.Role    `json:"role"`
	TotalCoins       int64           `json:"total_coins"`
	TotalKg          decimal.Decimal `json:"total_kg"`
	CoinExchanged    int64           `json:"coin_exchanged"`
	FullName         string          `json:"full_name,omitempty"`
	WhatsApp         string          `json:"whatsapp,omitempty"`
	PayoutMethod     string          `json:"payout_method"`
	PayoutAccount    string          `json:"payout_account,omitempty"`
	ProfileCompleted bool            `json:"profile_completed"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AdjustmentResult reports a completed adjustment
type AdjustmentResult struct {
	UserID        uuid.UUID `json:"user_id"`
	Operation     string    `json:"operation"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	AuditID       uuid.UUID `json:"audit_id"`
}

// AuditEntryResponse is one audit log row
type AuditEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	ActorID       uuid.UUID `json:"actor_id"`
	Action        string    `json:"action"`
	TargetID      uuid.UUID `json:"target_id"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToUserResponse converts a domain User
func ToUserResponse(u *account.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		TotalCoins:       u.Ledger.TotalCoins,
		TotalKg:          u.Ledger.TotalKg,
		CoinExchanged:    u.Ledger.CoinExchanged,
		FullName:         u.Profile.FullName,
		WhatsApp:         u.Profile.WhatsApp,
		PayoutMethod:     string(u.Profile.PayoutMethod),
		PayoutAccount:    u.Profile.PayoutAccount,
		ProfileCompleted: u.Profile.Completed,
		CreatedAt:        u.CreatedAt,
	}
}

// ToAuditEntryResponse converts a domain AuditEntry
func ToAuditEntryResponse(e account.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
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
