package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-fleet-booking/internal/config"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/logger"
)

// 接続確立時のみ限定的にリトライする（コアロジック内ではリトライしない）
const (
	connectMaxAttempts = 5
	connectBackoffBase = 500 * time.Millisecond
)

// NewConnection はPostgreSQLへの接続を作成する
// ストア未起動時はバックオフ付きで規定回数までリトライする
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		db, err := sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			// 接続プール設定
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			return db, nil
		}
		lastErr = err
		logger.Warn("データベース接続リトライ",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(connectBackoffBase * time.Duration(attempt))
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", lastErr)
}

// Ping はデータベース接続を確認する
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}
