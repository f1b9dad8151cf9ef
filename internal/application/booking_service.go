package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
	redisinfra "github.com/sanosuguru/go-fleet-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/metrics"
)

// 予約作成時の分散ロック設定
const (
	bookingLockTTL        = 10 * time.Second
	bookingLockMaxRetries = 3
	bookingLockRetryDelay = 100 * time.Millisecond
)

type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	vehicleRepo vehicle.Repository
	lockManager *redisinfra.LockManager
	metrics     *metrics.Metrics
}

func NewBookingService(tm transaction.Manager, br booking.Repository, vr vehicle.Repository, lm *redisinfra.LockManager, m *metrics.Metrics) *BookingService {
	return &BookingService{txManager: tm, bookingRepo: br, vehicleRepo: vr, lockManager: lm, metrics: m}
}

type CreateBookingInput struct {
	VehicleID   string
	CustomerID  string
	FromPincode route.Code
	ToPincode   route.Code
	StartTime   time.Time
}

// CreateBooking は予約を作成する
// 競合チェックと挿入は車両の行ロックを取得したトランザクション内で行い、
// 同一車両・重複時間帯の同時リクエストは必ず片方だけが成功する
// Redis が構成されている場合は車両単位の分散ロックも併用する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	// 車両の存在確認
	if _, err := s.vehicleRepo.GetByID(ctx, input.VehicleID); err != nil {
		return nil, err
	}

	// 推定所要時間の算出（不正な位置コードはここで失敗する）
	durationHours, err := route.EstimateRideDurationHours(input.FromPincode, input.ToPincode)
	if err != nil {
		return nil, err
	}

	b := booking.NewBooking(input.VehicleID, input.CustomerID, input.FromPincode, input.ToPincode, input.StartTime, durationHours)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	// 車両単位の分散ロック
	if s.lockManager != nil {
		lock, err := s.acquireVehicleLock(ctx, input.VehicleID)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countBooking("lock_failed")
				return nil, booking.ErrBookingConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// トランザクション内で競合チェックと挿入をアトミックに行う
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 行ロックで同一車両への予約作成を直列化する
	if _, err := s.vehicleRepo.GetByIDForUpdate(ctx, tx, input.VehicleID); err != nil {
		return nil, err
	}

	conflicting, err := s.bookingRepo.FindOverlapping(ctx, tx, input.VehicleID, b.Window())
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		s.countBooking("conflict")
		return nil, booking.ErrBookingConflict
	}

	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		s.countBooking("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countBooking("success")
	logger.Info("予約を作成",
		zap.String("booking_id", b.ID),
		zap.String("vehicle_id", b.VehicleID),
		zap.Time("start_time", b.StartTime),
		zap.Int("duration_hours", b.EstimatedRideDurationHours),
	)
	return b, nil
}

// CheckBookingConflict は候補時間帯が車両の既存予約と重なるかを判定する
// 読み取り専用。競合した予約の一覧も返す
func (s *BookingService) CheckBookingConflict(ctx context.Context, vehicleID string, w booking.Window) (*booking.ConflictResult, error) {
	existing, err := s.bookingRepo.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	var conflicting []*booking.Booking
	for _, b := range existing {
		if b.Window().Overlaps(w) {
			conflicting = append(conflicting, b)
		}
	}
	return &booking.ConflictResult{
		HasConflict:         len(conflicting) > 0,
		ConflictingBookings: conflicting,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings は車両名を付加した全予約を開始時刻の降順で取得する
func (s *BookingService) ListBookings(ctx context.Context) ([]*booking.WithVehicleName, error) {
	return s.bookingRepo.List(ctx)
}

// CancelBooking は予約を削除する
// 存在しないIDの場合は ErrBookingNotFound を返す（繰り返し呼んでも結果は同じ）
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	deleted, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return booking.ErrBookingNotFound
	}
	logger.Info("予約をキャンセル", zap.String("booking_id", id))
	return nil
}

func (s *BookingService) acquireVehicleLock(ctx context.Context, vehicleID string) (*redisinfra.DistributedLock, error) {
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, "vehicle:"+vehicleID, bookingLockTTL, bookingLockMaxRetries, bookingLockRetryDelay)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "failed"
		}
		s.metrics.DistributedLockDuration.WithLabelValues("acquire", status).Observe(time.Since(start).Seconds())
	}
	return lock, err
}

func (s *BookingService) countBooking(status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(status).Inc()
	}
}
