package vehicle

import "errors"

// Vehicle ドメインのエラー定義
var (
	ErrVehicleNotFound     = errors.New("車両が見つかりません")
	ErrVehicleNameRequired = errors.New("車両名は必須です")
	ErrInvalidCapacity     = errors.New("積載量は正の値である必要があります")
	ErrInvalidTyres        = errors.New("タイヤ数は正の値である必要があります")
)
