package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-fleet-booking/internal/config"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

func setupVehicleCache(t *testing.T) *VehicleCache {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	ctx := context.Background()
	if err := Ping(ctx, client); err != nil {
		t.Skipf("Redis接続エラー: %v", err)
	}
	t.Cleanup(func() {
		client.Del(ctx, vehicleListKey)
		client.Close()
	})
	return NewVehicleCache(client)
}

func TestVehicleCache(t *testing.T) {
	cache := setupVehicleCache(t)
	ctx := context.Background()

	t.Run("未保存時はキャッシュミス", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx))
		_, err := cache.GetList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("保存した一覧を取得できる", func(t *testing.T) {
		vehicles := []*vehicle.Vehicle{
			{ID: "v-1", Name: "Truck A", CapacityKg: 5000, Tyres: 6},
			{ID: "v-2", Name: "Van B", CapacityKg: 1200, Tyres: 4},
		}
		require.NoError(t, cache.SetList(ctx, vehicles, time.Minute))

		got, err := cache.GetList(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Truck A", got[0].Name)
		assert.Equal(t, 1200, got[1].CapacityKg)
	})

	t.Run("無効化後はキャッシュミス", func(t *testing.T) {
		vehicles := []*vehicle.Vehicle{{ID: "v-1", Name: "Truck A", CapacityKg: 5000, Tyres: 6}}
		require.NoError(t, cache.SetList(ctx, vehicles, time.Minute))

		require.NoError(t, cache.Invalidate(ctx))

		_, err := cache.GetList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
