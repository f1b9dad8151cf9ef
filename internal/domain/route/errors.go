package route

import "errors"

// Route ドメインのエラー定義
var (
	ErrInvalidRouteCode = errors.New("位置コードが不正です（数値である必要があります）")
)
