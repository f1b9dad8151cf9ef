package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-fleet-booking/internal/api"
	"github.com/sanosuguru/go-fleet-booking/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-fleet-booking/internal/api/middleware"
	"github.com/sanosuguru/go-fleet-booking/internal/application"
	"github.com/sanosuguru/go-fleet-booking/internal/config"
	"github.com/sanosuguru/go-fleet-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-fleet-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-fleet-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-fleet-booking/internal/worker"
)

const bookingStatsInterval = 30 * time.Second

func main() {
	defer logger.Sync()

	cfg := config.Load()

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション（MIGRATIONS_PATH が設定されている場合のみ）
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(db.DB, path); err != nil {
			logger.Fatal("マイグレーションに失敗", zap.Error(err))
		}
		logger.Info("マイグレーション完了", zap.String("path", path))
	}

	// Redis接続（分散ロックとキャッシュ用、未接続の場合は機能を縮退）
	var (
		lockManager  *redisinfra.LockManager
		vehicleCache *redisinfra.VehicleCache
	)
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続に失敗（分散ロックとキャッシュなしで継続）", zap.Error(err))
	} else {
		lockManager = redisinfra.NewLockManager(redisClient)
		vehicleCache = redisinfra.NewVehicleCache(redisClient)
		defer redisClient.Close()
	}
	cancelPing()

	// メトリクス
	m := metrics.Init()

	// リポジトリとサービス
	txManager := postgres.NewTxManager(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	vehicleService := application.NewVehicleService(vehicleRepo, bookingRepo, vehicleCache, m)
	bookingService := application.NewBookingService(txManager, bookingRepo, vehicleRepo, lockManager, m)

	// 予約統計ワーカー
	statsReporter := worker.NewBookingStatsReporter(bookingRepo, m, bookingStatsInterval)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go statsReporter.Start(workerCtx)

	// Echoセットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	// ルーティング
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/vehicles", vehicleHandler.Create)
	v1.GET("/vehicles", vehicleHandler.List)
	v1.GET("/vehicles/available", vehicleHandler.FindAvailable)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.List)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.DELETE("/bookings/:id", bookingHandler.Cancel)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	statsReporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
