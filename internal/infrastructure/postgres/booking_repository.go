package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-fleet-booking/internal/domain/booking"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/route"
	"github.com/sanosuguru/go-fleet-booking/internal/domain/transaction"
)

type bookingRow struct {
	ID                         string    `db:"id"`
	VehicleID                  string    `db:"vehicle_id"`
	CustomerID                 string    `db:"customer_id"`
	FromPincode                string    `db:"from_pincode"`
	ToPincode                  string    `db:"to_pincode"`
	StartTime                  time.Time `db:"start_time"`
	EndTime                    time.Time `db:"end_time"`
	EstimatedRideDurationHours int       `db:"estimated_ride_duration_hours"`
	CreatedAt                  time.Time `db:"created_at"`
	UpdatedAt                  time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, VehicleID: r.VehicleID, CustomerID: r.CustomerID,
		FromPincode: route.Code(r.FromPincode), ToPincode: route.Code(r.ToPincode),
		StartTime: r.StartTime, EndTime: r.EndTime,
		EstimatedRideDurationHours: r.EstimatedRideDurationHours,
		CreatedAt:                  r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// overlapCondition は時間帯の重複判定。条件は3分岐:
// 既存予約の開始が候補時間帯内 / 既存予約の終了が候補時間帯内 / 既存予約が候補時間帯を包含
// 境界が一致する連続予約は重複扱いしない（booking.Window.Overlaps と同一のセマンティクス）
const overlapCondition = `(
		(start_time >= $%[1]d AND start_time < $%[2]d)
		OR (end_time > $%[1]d AND end_time <= $%[2]d)
		OR (start_time <= $%[1]d AND end_time >= $%[2]d)
	)`

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}
	query := `INSERT INTO bookings (vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		b.VehicleID, b.CustomerID, string(b.FromPincode), string(b.ToPincode),
		b.StartTime, b.EndTime, b.EstimatedRideDurationHours, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, created_at, updated_at FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) ListByVehicleID(ctx context.Context, vehicleID string) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, created_at, updated_at FROM bookings WHERE vehicle_id = $1 ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &rows, query, vehicleID); err != nil {
		return nil, fmt.Errorf("車両の予約一覧取得に失敗: %w", err)
	}
	bookings := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		bookings[i] = row.toEntity()
	}
	return bookings, nil
}

// FindOverlapping は指定時間帯と重なる予約をトランザクション内で取得する
// 車両の行ロックを取得した後に呼び出すこと
func (r *BookingRepository) FindOverlapping(ctx context.Context, tx transaction.Tx, vehicleID string, w booking.Window) ([]*booking.Booking, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errors.New("トランザクションが不正です")
	}
	var rows []bookingRow
	query := `SELECT id, vehicle_id, customer_id, from_pincode, to_pincode, start_time, end_time, estimated_ride_duration_hours, created_at, updated_at
		FROM bookings
		WHERE vehicle_id = $1 AND ` + fmt.Sprintf(overlapCondition, 2, 3)
	if err := sqlxTx.SelectContext(ctx, &rows, query, vehicleID, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("重複予約の取得に失敗: %w", err)
	}
	bookings := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		bookings[i] = row.toEntity()
	}
	return bookings, nil
}

// ListConflictingVehicleIDs は指定時間帯と重なる予約を持つ車両IDを取得する
// 空き車両検索で候補車両集合から除外するために使用する
func (r *BookingRepository) ListConflictingVehicleIDs(ctx context.Context, w booking.Window) ([]string, error) {
	var ids []string
	query := `SELECT DISTINCT vehicle_id FROM bookings WHERE ` + fmt.Sprintf(overlapCondition, 1, 2)
	if err := r.db.SelectContext(ctx, &ids, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("競合車両IDの取得に失敗: %w", err)
	}
	return ids, nil
}

type bookingWithVehicleRow struct {
	bookingRow
	VehicleName string `db:"vehicle_name"`
}

func (r *BookingRepository) List(ctx context.Context) ([]*booking.WithVehicleName, error) {
	var rows []bookingWithVehicleRow
	query := `SELECT b.id, b.vehicle_id, b.customer_id, b.from_pincode, b.to_pincode, b.start_time, b.end_time, b.estimated_ride_duration_hours, b.created_at, b.updated_at, v.name AS vehicle_name
		FROM bookings b
		JOIN vehicles v ON b.vehicle_id = v.id
		ORDER BY b.start_time DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.WithVehicleName, len(rows))
	for i, row := range rows {
		result[i] = &booking.WithVehicleName{
			Booking:     *row.bookingRow.toEntity(),
			VehicleName: row.VehicleName,
		}
	}
	return result, nil
}

// Delete は予約を削除する。対象が存在しない場合は false を返す（エラーにしない）
func (r *BookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("予約削除結果の取得に失敗: %w", err)
	}
	return rows > 0, nil
}

func (r *BookingRepository) CountActive(ctx context.Context, at time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE start_time <= $1 AND end_time > $1`
	if err := r.db.GetContext(ctx, &count, query, at); err != nil {
		return 0, fmt.Errorf("進行中予約数の取得に失敗: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) CountScheduled(ctx context.Context, after time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE start_time > $1`
	if err := r.db.GetContext(ctx, &count, query, after); err != nil {
		return 0, fmt.Errorf("予定予約数の取得に失敗: %w", err)
	}
	return count, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
