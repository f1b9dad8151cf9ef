package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const vehicleListKey = "vehicles:all"

// VehicleCache は車両一覧のキャッシュを管理する
// 車両は作成後ほぼ読み取り専用のため、一覧取得をキャッシュして負荷を下げる
type VehicleCache struct {
	client *redis.Client
}

// NewVehicleCache は新しいVehicleCacheインスタンスを作成する
func NewVehicleCache(client *redis.Client) *VehicleCache {
	return &VehicleCache{client: client}
}

// GetList は車両一覧をキャッシュから取得する
func (c *VehicleCache) GetList(ctx context.Context) ([]*vehicle.Vehicle, error) {
	data, err := c.client.Get(ctx, vehicleListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var vehicles []*vehicle.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return vehicles, nil
}

// SetList は車両一覧をキャッシュに保存する
func (c *VehicleCache) SetList(ctx context.Context, vehicles []*vehicle.Vehicle, ttl time.Duration) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, vehicleListKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は車両一覧のキャッシュを無効化する（車両追加時に呼ぶ）
func (c *VehicleCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, vehicleListKey).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}
