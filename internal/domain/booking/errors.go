package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound    = errors.New("予約が見つかりません")
	ErrBookingConflict    = errors.New("指定時間帯にこの車両は既に予約されています")
	ErrVehicleIDRequired  = errors.New("車両IDは必須です")
	ErrCustomerIDRequired = errors.New("顧客IDは必須です")
	ErrInvalidDuration    = errors.New("推定所要時間は1時間以上である必要があります")
	ErrInvalidTimeWindow  = errors.New("時間帯が不正です（開始は終了より前である必要があります）")
)
