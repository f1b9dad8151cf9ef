package booking

import "time"

// Window は予約の占有時間帯を表す値オブジェクト（常に Start < End）
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow は開始時刻と所要時間（時間単位）から時間帯を作成する
func NewWindow(start time.Time, durationHours int) Window {
	return Window{
		Start: start,
		End:   start.Add(time.Duration(durationHours) * time.Hour),
	}
}

// Overlaps は2つの時間帯が重なるかを判定する
// 境界は「終了時刻ちょうどに開始する予約」を重複とみなさない
// （前の予約の終了と次の予約の開始が一致する連続予約は許可される）
func (w Window) Overlaps(other Window) bool {
	// other の開始が w の範囲内にある
	startsWithin := !other.Start.Before(w.Start) && other.Start.Before(w.End)
	// other の終了が w の範囲内にある
	endsWithin := other.End.After(w.Start) && !other.End.After(w.End)
	// other が w を完全に包含する
	encompasses := !other.Start.After(w.Start) && !other.End.Before(w.End)

	return startsWithin || endsWithin || encompasses
}

// Contains は指定時刻が時間帯内（Start以上End未満）かを返す
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Valid は時間帯として成立しているか（Start < End）を返す
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}
