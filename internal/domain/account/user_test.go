package account

import (
	"testing"

	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates customer with empty ledger", func(t *testing.T) {
		u, err := NewUser("johndoe", "John@Example.com", "hash", RoleCustomer)
		require.NoError(t, err)

		assert.Equal(t, "johndoe", u.Username)
		assert.Equal(t, "john@example.com", u.Email)
		assert.Equal(t, 1, u.Version)
		assert.Zero(t, u.Ledger.TotalCoins)
		assert.False(t, u.IsAdmin())
		assert.Equal(t, PayoutNone, u.Profile.PayoutMethod)
	})

	tests := []struct {
		name     string
		username string
		email    string
		hash     string
		role     Role
	}{
		{"short username", "ab", "a@b.co", "hash", RoleCustomer},
		{"bad email", "johndoe", "not-an-email", "hash", RoleCustomer},
		{"empty hash", "johndoe", "a@b.co", "", RoleCustomer},
		{"unknown role", "johndoe", "a@b.co", "hash", Role("root")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.hash, tt.role)
			assert.True(t, shared.IsCode(err, shared.CodeValidation))
		})
	}
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "hash", RoleCustomer)
	require.NoError(t, err)

	t.Run("complete profile is flagged", func(t *testing.T) {
		err := u.UpdateProfile(Profile{
			FullName:      "John Doe",
			WhatsApp:      "081234567890",
			PayoutMethod:  PayoutOVO,
			PayoutAccount: "081234567890",
		})
		require.NoError(t, err)
		assert.True(t, u.Profile.Completed)
		assert.Equal(t, 2, u.Version)
	})

	t.Run("payout method needs an account", func(t *testing.T) {
		err := u.UpdateProfile(Profile{PayoutMethod: PayoutDana})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		assert.Equal(t, PayoutOVO, u.Profile.PayoutMethod)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		err := u.UpdateProfile(Profile{WhatsApp: "call me", PayoutMethod: PayoutNone})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestUser_ApplyLedger(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "hash", RoleCustomer)
	require.NoError(t, err)

	next, err := u.Ledger.Add(500)
	require.NoError(t, err)
	u.ApplyLedger(next, "adjustment")

	assert.Equal(t, int64(500), u.Ledger.TotalCoins)
	assert.Equal(t, 2, u.Version)

	events := u.GetDomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*BalanceChangedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(0), changed.BalanceBefore)
	assert.Equal(t, int64(500), changed.BalanceAfter)
	assert.Equal(t, "adjustment", changed.Reason)
}

func TestParsePayoutMethod(t *testing.T) {
	p, err := ParsePayoutMethod("OVO")
	require.NoError(t, err)
	assert.Equal(t, PayoutOVO, p)

	p, err = ParsePayoutMethod("")
	require.NoError(t, err)
	assert.Equal(t, PayoutNone, p)

	_, err = ParsePayoutMethod("paypal")
	assert.Error(t, err)
}
