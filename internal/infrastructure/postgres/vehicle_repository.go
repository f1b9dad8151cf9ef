package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/vehicle"
)

type vehicleRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CapacityKg int       `db:"capacity_kg"`
	Tyres      int       `db:"tyres"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *vehicleRow) toEntity() *vehicle.Vehicle {
	return &vehicle.Vehicle{
		ID: r.ID, Name: r.Name, CapacityKg: r.CapacityKg, Tyres: r.Tyres,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type VehicleRepository struct{ db *sqlx.DB }

func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	query := `INSERT INTO vehicles (name, capacity_kg, tyres, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, v.Name, v.CapacityKg, v.Tyres, v.CreatedAt, v.UpdatedAt).Scan(&v.ID); err != nil {
		return fmt.Errorf("車両作成に失敗: %w", err)
	}
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	var row vehicleRow
	query := `SELECT id, name, capacity_kg, tyres, created_at, updated_at FROM vehicles WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vehicle.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("車両取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は FOR UPDATE で車両の行ロックを取得する
// 同一車両に対する競合チェックと予約挿入がトランザクション単位で直列化される
func (r *VehicleRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*vehicle.Vehicle, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}
	var row vehicleRow
	query := `SELECT id, name, capacity_kg, tyres, created_at, updated_at FROM vehicles WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vehicle.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("車両ロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]*vehicle.Vehicle, error) {
	var rows []vehicleRow
	query := `SELECT id, name, capacity_kg, tyres, created_at, updated_at FROM vehicles ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("車両一覧取得に失敗: %w", err)
	}
	vehicles := make([]*vehicle.Vehicle, len(rows))
	for i, row := range rows {
		vehicles[i] = row.toEntity()
	}
	return vehicles, nil
}

func (r *VehicleRepository) ListByMinCapacity(ctx context.Context, capacityRequiredKg int) ([]*vehicle.Vehicle, error) {
	var rows []vehicleRow
	query := `SELECT id, name, capacity_kg, tyres, created_at, updated_at FROM vehicles WHERE capacity_kg >= $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, capacityRequiredKg); err != nil {
		return nil, fmt.Errorf("積載量条件での車両取得に失敗: %w", err)
	}
	vehicles := make([]*vehicle.Vehicle, len(rows))
	for i, row := range rows {
		vehicles[i] = row.toEntity()
	}
	return vehicles, nil
}

var _ vehicle.Repository = (*VehicleRepository)(nil)
