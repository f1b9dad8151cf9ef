package booking

import (
	"context"
	"time"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// ListByVehicleID は車両の全予約を取得する
	ListByVehicleID(ctx context.Context, vehicleID string) ([]*Booking, error)

	// FindOverlapping は指定時間帯と重なる車両の予約をトランザクション内で取得する
	// 予約作成時の競合判定に使用する
	FindOverlapping(ctx context.Context, tx transaction.Tx, vehicleID string, w Window) ([]*Booking, error)

	// ListConflictingVehicleIDs は指定時間帯と重なる予約を持つ車両IDの一覧を取得する
	ListConflictingVehicleIDs(ctx context.Context, w Window) ([]string, error)

	// List は車両名を付加した全予約を開始時刻の降順で取得する
	List(ctx context.Context) ([]*WithVehicleName, error)

	// Delete は予約を削除する。削除された場合 true を返す
	Delete(ctx context.Context, id string) (bool, error)

	// CountActive は指定時刻に進行中の予約数を取得する
	CountActive(ctx context.Context, at time.Time) (int, error)

	// CountScheduled は指定時刻より後に開始する予約数を取得する
	CountScheduled(ctx context.Context, after time.Time) (int, error)
}
