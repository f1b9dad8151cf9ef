package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
	redisinfra "github.com/sanosuguru/go-fleet-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/metrics"
)

// 車両一覧キャッシュのTTL（車両は読み取り中心のため短めで十分）
const vehicleListCacheTTL = 30 * time.Second

type VehicleService struct {
	vehicleRepo vehicle.Repository
	bookingRepo booking.Repository
	cache       *redisinfra.VehicleCache
	metrics     *metrics.Metrics
}

func NewVehicleService(vr vehicle.Repository, br booking.Repository, cache *redisinfra.VehicleCache, m *metrics.Metrics) *VehicleService {
	return &VehicleService{vehicleRepo: vr, bookingRepo: br, cache: cache, metrics: m}
}

type CreateVehicleInput struct {
	Name       string
	CapacityKg int
	Tyres      int
}

func (s *VehicleService) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*vehicle.Vehicle, error) {
	v := vehicle.NewVehicle(input.Name, input.CapacityKg, input.Tyres)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("車両作成に失敗しました: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn("車両一覧キャッシュの無効化に失敗", zap.Error(err))
		}
	}

	logger.Info("車両を登録",
		zap.String("vehicle_id", v.ID),
		zap.String("name", v.Name),
		zap.Int("capacity_kg", v.CapacityKg),
	)
	return v, nil
}

func (s *VehicleService) GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// ListVehicles は全車両を取得する（キャッシュ補助つき）
func (s *VehicleService) ListVehicles(ctx context.Context) ([]*vehicle.Vehicle, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetList(ctx); err == nil {
			return cached, nil
		} else if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("車両一覧キャッシュの取得に失敗", zap.Error(err))
		}
	}

	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, vehicles, vehicleListCacheTTL); err != nil {
			logger.Warn("車両一覧キャッシュの保存に失敗", zap.Error(err))
		}
	}
	return vehicles, nil
}

type FindAvailableVehiclesInput struct {
	CapacityRequiredKg int
	FromPincode        route.Code
	ToPincode          route.Code
	StartTime          time.Time
}

// AvailableVehicle は空き車両検索の結果（推定所要時間つき）
type AvailableVehicle struct {
	Vehicle                    *vehicle.Vehicle
	EstimatedRideDurationHours int
}

// FindAvailableVehicles は指定条件で予約可能な車両を検索する
// 積載量条件（ちょうど一致も可）を満たし、候補時間帯に既存予約と重ならない車両を返す
// 副作用のない読み取り専用クエリ
func (s *VehicleService) FindAvailableVehicles(ctx context.Context, input FindAvailableVehiclesInput) ([]*AvailableVehicle, error) {
	durationHours, err := route.EstimateRideDurationHours(input.FromPincode, input.ToPincode)
	if err != nil {
		return nil, err
	}
	window := booking.NewWindow(input.StartTime, durationHours)

	candidates, err := s.vehicleRepo.ListByMinCapacity(ctx, input.CapacityRequiredKg)
	if err != nil {
		return nil, err
	}

	conflictingIDs, err := s.bookingRepo.ListConflictingVehicleIDs(ctx, window)
	if err != nil {
		return nil, err
	}
	conflicting := make(map[string]struct{}, len(conflictingIDs))
	for _, id := range conflictingIDs {
		conflicting[id] = struct{}{}
	}

	available := make([]*AvailableVehicle, 0, len(candidates))
	for _, v := range candidates {
		if _, ok := conflicting[v.ID]; ok {
			continue
		}
		available = append(available, &AvailableVehicle{
			Vehicle:                    v,
			EstimatedRideDurationHours: durationHours,
		})
	}

	if s.metrics != nil {
		s.metrics.AvailableVehiclesFound.Observe(float64(len(available)))
	}
	return available, nil
}
