package route

import (
	"strconv"
	"time"
)

// Code は拠点を表す数値文字列の位置コード（ピンコード）
type Code string

// Int は位置コードを整数に変換する
func (c Code) Int() (int, error) {
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return 0, ErrInvalidRouteCode
	}
	return n, nil
}

// EstimateRideDurationHours は出発地と目的地の位置コードから推定所要時間（時間単位）を算出する
// 計算式: |目的地コード - 出発地コード| mod 24（最低1時間）
// 実際の距離・ETA計算の代わりの簡易ロジック。呼び出し側を変えずに差し替え可能にしておく
func EstimateRideDurationHours(from, to Code) (int, error) {
	fromCode, err := from.Int()
	if err != nil {
		return 0, err
	}
	toCode, err := to.Int()
	if err != nil {
		return 0, err
	}

	duration := abs(toCode-fromCode) % 24
	if duration < 1 {
		duration = 1
	}
	return duration, nil
}

// EstimateRideDuration は推定所要時間を time.Duration として返す
func EstimateRideDuration(from, to Code) (time.Duration, error) {
	hours, err := EstimateRideDurationHours(from, to)
	if err != nil {
		return 0, err
	}
	return time.Duration(hours) * time.Hour, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
