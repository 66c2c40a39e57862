package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"validated", StatusSuccess},
		{"completed", StatusSuccess},
		{"berhasil", StatusSuccess},
		{"SUCCESS", StatusSuccess},
		{"rejected", StatusCancelled},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{" Dibatalkan ", StatusCancelled},
		{"processing", StatusProcessing},
		{"diproses", StatusProcessing},
		{"pending", StatusPending},
		{"", StatusPending},
		{"something-new", StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestParseStatusFilter(t *testing.T) {
	_, ok := ParseStatusFilter("  ")
	assert.False(t, ok)

	s, ok := ParseStatusFilter("berhasil")
	assert.True(t, ok)
	assert.Equal(t, StatusSuccess, s)
}

func TestStatus_RawStatuses(t *testing.T) {
	assert.Equal(t, []string{"validated"}, StatusSuccess.RawStatuses(KindDeposit))
	assert.Equal(t, []string{"completed"}, StatusSuccess.RawStatuses(KindWithdrawal))
	assert.Equal(t, []string{"processing"}, StatusProcessing.RawStatuses(KindWithdrawal))
	assert.Empty(t, StatusProcessing.RawStatuses(KindDeposit))
	assert.Equal(t, []string{"cancelled"}, StatusCancelled.RawStatuses(KindDeposit))
	assert.Equal(t, []string{"pending"}, StatusPending.RawStatuses(KindWithdrawal))
}

func TestStatus_LabelAndTerminal(t *testing.T) {
	assert.Equal(t, "Berhasil", StatusSuccess.Label())
	assert.Equal(t, "Dibatalkan", StatusCancelled.Label())
	assert.Equal(t, "Diproses", StatusProcessing.Label())
	assert.Equal(t, "Pending", StatusPending.Label())

	assert.True(t, StatusSuccess.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Deposit")
	assert.True(t, ok)
	assert.Equal(t, KindDeposit, k)

	_, ok = ParseKind("")
	assert.False(t, ok)
}
