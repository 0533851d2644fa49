package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/infra/db"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Confirmed以降なのにPaymentが無いゲートウェイ注文を一覧する。
// 見つかれば終了コード2（cronで検知する用）
func main() {
	limit := flag.Int("limit", 100, "max orders to report (1-500)")
	timeout := flag.Duration("timeout", 30*time.Second, "query timeout")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbCfg, err := config.LoadDB()
	if err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	gormDB, err := db.Connect(dbCfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	queries := usecase.NewOrderQueryUsecase(infraRepo.NewTxManagerGorm(gormDB))
	orders, err := queries.FindUnreconciled(ctx, *limit)
	if err != nil {
		logger.Fatal("reconciliation query failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	for _, o := range orders {
		if err := enc.Encode(o); err != nil {
			logger.Fatal("failed to write result", zap.Error(err))
		}
	}

	logger.Info("reconciliation finished", zap.Int("unreconciled", len(orders)))
	if len(orders) > 0 {
		logger.Sync()
		os.Exit(2)
	}
}
