package catalog

import (
	"testing"

	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecyclable(t *testing.T) {
	r, err := NewRecyclable("  Plastik ", 5000)
	require.NoError(t, err)
	assert.Equal(t, "plastik", r.Name)
	assert.Equal(t, "Plastik", r.DisplayName())

	_, err = NewRecyclable("", 5000)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = NewRecyclable("kaca", 0)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = NewRecyclable("emas", MaxPricePerKg+1)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestRecyclable_UpdatePrice(t *testing.T) {
	r, err := NewRecyclable("kardus", 4000)
	require.NoError(t, err)

	require.NoError(t, r.UpdatePrice(4500))
	assert.Equal(t, int64(4500), r.PricePerKg)

	assert.Error(t, r.UpdatePrice(-1))
	assert.Error(t, r.UpdatePrice(MaxPricePerKg+1))
	assert.Equal(t, int64(4500), r.PricePerKg)
}

func TestNewLocation(t *testing.T) {
	l, err := NewLocation("lokasi3", "Bank Sampah SetorCuan - ITERA", -5.36, 105.32, "Jl. Terusan Ryacudu")
	require.NoError(t, err)
	assert.Equal(t, "08:00", l.OpenTime)

	_, err = NewLocation("x", "Bad", 91, 0, "")
	assert.Error(t, err)

	_, err = NewLocation("", "No ID", 0, 0, "")
	assert.Error(t, err)
}
