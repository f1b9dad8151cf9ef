package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-fleet-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/metrics"
)

// BookingCounter は予約件数を集計するインターフェース
type BookingCounter interface {
	CountActive(ctx context.Context, at time.Time) (int, error)
	CountScheduled(ctx context.Context, after time.Time) (int, error)
}

// BookingStatsReporter は予約状況を定期的に集計してゲージに反映するワーカー
type BookingStatsReporter struct {
	counter  BookingCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewBookingStatsReporter は新しいレポーターを作成
func NewBookingStatsReporter(
	counter BookingCounter,
	m *metrics.Metrics,
	interval time.Duration,
) *BookingStatsReporter {
	return &BookingStatsReporter{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はレポーターを開始
func (r *BookingStatsReporter) Start(ctx context.Context) {
	logger.Info("予約統計レポーター開始",
		zap.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	// 起動直後に一度集計しておく
	r.report(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("予約統計レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("予約統計レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// Stop はレポーターを停止
func (r *BookingStatsReporter) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// report は現在の予約件数を集計してゲージを更新する
func (r *BookingStatsReporter) report(ctx context.Context) {
	log := logger.Get()
	now := time.Now()

	active, err := r.counter.CountActive(ctx, now)
	if err != nil {
		log.Error("進行中予約数の集計失敗", zap.Error(err))
		return
	}

	scheduled, err := r.counter.CountScheduled(ctx, now)
	if err != nil {
		log.Error("開始前予約数の集計失敗", zap.Error(err))
		return
	}

	r.metrics.ActiveBookings.WithLabelValues("in_progress").Set(float64(active))
	r.metrics.ActiveBookings.WithLabelValues("scheduled").Set(float64(scheduled))

	log.Debug("予約統計を更新",
		zap.Int("in_progress", active),
		zap.Int("scheduled", scheduled),
	)
}
