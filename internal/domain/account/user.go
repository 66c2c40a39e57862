package account

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/setorcuan/backend/internal/domain/shared"
)

// Role is the access level of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// PayoutMethod is the e-wallet a customer is paid out to
type PayoutMethod string

const (
	PayoutNone    PayoutMethod = "none"
	PayoutGopay   PayoutMethod = "gopay"
	PayoutOVO     PayoutMethod = "ovo"
	PayoutDana    PayoutMethod = "dana"
	PayoutLinkAja PayoutMethod = "linkaja"
)

// IsValid checks if the payout method is a known value
func (p PayoutMethod) IsValid() bool {
	switch p {
	case PayoutNone, PayoutGopay, PayoutOVO, PayoutDana, PayoutLinkAja:
		return true
	}
	return false
}

// ParsePayoutMethod parses a case-insensitive payout method name
func ParsePayoutMethod(s string) (PayoutMethod, error) {
	if s == "" {
		return PayoutNone, nil
	}
	p := PayoutMethod(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", shared.NewValidationError("unknown payout method %q", s)
	}
	return p, nil
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,50}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{8,16}$`)
)

// Profile holds contact and payout details
type Profile struct {
	FullName      string
	WhatsApp      string
	PayoutMethod  PayoutMethod
	PayoutAccount string
	Completed     bool
}

// Validate checks profile field formats
func (p Profile) Validate() error {
	if len(p.FullName) > 100 {
		return shared.NewValidationError("full name cannot exceed 100 characters")
	}
	if p.WhatsApp != "" && !phonePattern.MatchString(p.WhatsApp) {
		return shared.NewValidationError("invalid WhatsApp number")
	}
	if !p.PayoutMethod.IsValid() {
		return shared.NewValidationError("unknown payout method %q", p.PayoutMethod)
	}
	if p.PayoutMethod != PayoutNone && p.PayoutAccount == "" {
		return shared.NewValidationError("payout account is required for %s", p.PayoutMethod)
	}
	return nil
}

// isComplete reports whether the profile has everything a withdrawal needs
func (p Profile) isComplete() bool {
	return p.WhatsApp != "" && p.PayoutMethod != PayoutNone && p.PayoutAccount != ""
}

// User is the aggregate root for an account and its point ledger
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Ledger       Ledger
	Profile      Profile
}

// NewUser creates a new user with an empty ledger
func NewUser(username, email, passwordHash string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !usernamePattern.MatchString(username) {
		return nil, shared.NewValidationError("username must be 3-50 letters, digits, dots or underscores")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewValidationError("invalid email address")
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("unknown role %q", role)
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              role,
		Ledger:            NewLedger(),
		Profile:           Profile{PayoutMethod: PayoutNone},
	}, nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile replaces the profile after validating it
func (u *User) UpdateProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Completed = p.isComplete()
	u.Profile = p
	u.Touch(time.Now())
	return nil
}

// SetPasswordHash replaces the stored credential hash
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewValidationError("password hash cannot be empty")
	}
	u.PasswordHash = hash
	u.Touch(time.Now())
	return nil
}

// ApplyLedger swaps in a new ledger snapshot and records the change
func (u *User) ApplyLedger(next Ledger, reason string) {
	prev := u.Ledger
	u.Ledger = next
	u.Touch(time.Now())
	u.AddDomainEvent(NewBalanceChangedEvent(u, prev, next, reason))
}
