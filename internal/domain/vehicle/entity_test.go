package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVehicle(t *testing.T) {
	v := NewVehicle("Truck A", 5000, 6)
	assert.Equal(t, "Truck A", v.Name)
	assert.Equal(t, 5000, v.CapacityKg)
	assert.Equal(t, 6, v.Tyres)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestVehicle_Validate(t *testing.T) {
	t.Run("正常な車両", func(t *testing.T) {
		require.NoError(t, NewVehicle("Truck A", 5000, 6).Validate())
	})

	t.Run("名前なし", func(t *testing.T) {
		assert.ErrorIs(t, NewVehicle("", 5000, 6).Validate(), ErrVehicleNameRequired)
	})

	t.Run("積載量0は不正", func(t *testing.T) {
		assert.ErrorIs(t, NewVehicle("Truck A", 0, 6).Validate(), ErrInvalidCapacity)
	})

	t.Run("負の積載量は不正", func(t *testing.T) {
		assert.ErrorIs(t, NewVehicle("Truck A", -100, 6).Validate(), ErrInvalidCapacity)
	})

	t.Run("タイヤ数0は不正", func(t *testing.T) {
		assert.ErrorIs(t, NewVehicle("Truck A", 5000, 0).Validate(), ErrInvalidTyres)
	})
}

func TestVehicle_CanCarry(t *testing.T) {
	v := NewVehicle("Truck A", 2000, 6)

	assert.True(t, v.CanCarry(1000))
	assert.True(t, v.CanCarry(2000), "ちょうど一致する積載量も運べる")
	assert.False(t, v.CanCarry(2001))
}
