package booking

import (
	"time"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
)

// Booking は車両予約エンティティを表す
// 作成後に更新されることはなく、キャンセルは削除として扱う
type Booking struct {
	ID                         string
	VehicleID                  string
	CustomerID                 string
	FromPincode                route.Code
	ToPincode                  route.Code
	StartTime                  time.Time
	EndTime                    time.Time
	EstimatedRideDurationHours int
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// NewBooking は新しい予約を作成する
// EndTime は StartTime + 推定所要時間として導出される
func NewBooking(vehicleID, customerID string, from, to route.Code, startTime time.Time, durationHours int) *Booking {
	now := time.Now()
	return &Booking{
		VehicleID:                  vehicleID,
		CustomerID:                 customerID,
		FromPincode:                from,
		ToPincode:                  to,
		StartTime:                  startTime,
		EndTime:                    startTime.Add(time.Duration(durationHours) * time.Hour),
		EstimatedRideDurationHours: durationHours,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
}

// Window は予約の占有時間帯を返す
func (b *Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.VehicleID == "" {
		return ErrVehicleIDRequired
	}
	if b.CustomerID == "" {
		return ErrCustomerIDRequired
	}
	if b.FromPincode == "" || b.ToPincode == "" {
		return route.ErrInvalidRouteCode
	}
	if b.EstimatedRideDurationHours < 1 {
		return ErrInvalidDuration
	}
	if !b.Window().Valid() {
		return ErrInvalidTimeWindow
	}
	return nil
}

// WithVehicleName は車両名を付加した予約一覧用の読み取りモデル
type WithVehicleName struct {
	Booking
	VehicleName string
}

// ConflictResult は競合チェックの結果を表す
type ConflictResult struct {
	HasConflict         bool
	ConflictingBookings []*Booking
}
