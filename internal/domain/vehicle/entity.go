package vehicle

import "time"

// Vehicle は車両エンティティを表す
// 作成後は現行スコープでは更新・削除されない
type Vehicle struct {
	ID         string
	Name       string
	CapacityKg int
	Tyres      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewVehicle は新しい車両を作成する
func NewVehicle(name string, capacityKg, tyres int) *Vehicle {
	now := time.Now()
	return &Vehicle{
		Name:       name,
		CapacityKg: capacityKg,
		Tyres:      tyres,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate は車両の検証を行う
func (v *Vehicle) Validate() error {
	if v.Name == "" {
		return ErrVehicleNameRequired
	}
	if v.CapacityKg <= 0 {
		return ErrInvalidCapacity
	}
	if v.Tyres <= 0 {
		return ErrInvalidTyres
	}
	return nil
}

// CanCarry は要求積載量を運べるかを返す（ちょうど一致も可）
func (v *Vehicle) CanCarry(capacityRequiredKg int) bool {
	return v.CapacityKg >= capacityRequiredKg
}
