package vehicle

import (
	"context"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/transaction"
)

// Repository は車両リポジトリのインターフェース
type Repository interface {
	// Create は新しい車両を作成する
	Create(ctx context.Context, v *Vehicle) error

	// GetByID はIDから車両を取得する
	GetByID(ctx context.Context, id string) (*Vehicle, error)

	// GetByIDForUpdate は車両の行ロックを取得しつつIDから車両を取得する
	// 同一車両に対する予約作成を直列化するために使用する
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Vehicle, error)

	// List は全車両を作成日時の降順で取得する
	List(ctx context.Context) ([]*Vehicle, error)

	// ListByMinCapacity は指定積載量以上の車両を取得する（境界は含む）
	ListByMinCapacity(ctx context.Context, capacityRequiredKg int) ([]*Vehicle, error)
}
