package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/infra/cache"
	"marketplace/internal/infra/db"
	"marketplace/internal/infra/events"
	"marketplace/internal/infra/gateway"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/server"
	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	//Kafkaヘッダにtraceparentを載せる
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	//DB接続
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	//注文イベント（ブローカー未設定なら送らない）
	var publisher usecase.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.InitProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(err))
		}
		kp := events.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)
		defer kp.Close()
		publisher = kp
	}

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sellerRepo := infraRepo.NewSellerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	//公開プロフィールだけキャッシュ（Redis未設定ならそのまま）
	catalogSellers, catalogProducts := cache.NewSellerRepository(sellerRepo, nil, cfg.CacheTTL, logger),
		cache.NewProductRepository(productRepo, nil, cfg.CacheTTL, logger)
	if cfg.RedisAddr != "" {
		rdb, err := cache.InitRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			//キャッシュ無しでも動かす
			logger.Warn("redis unavailable, cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			catalogSellers = cache.NewSellerRepository(sellerRepo, rdb, cfg.CacheTTL, logger)
			catalogProducts = cache.NewProductRepository(productRepo, rdb, cfg.CacheTTL, logger)
		}
	}

	//決済ゲートウェイ（リトライ＋サーキットブレーカー）
	gw := gateway.NewRetrying(
		gateway.NewRazorpayClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.Timeout),
		cfg.Gateway.MaxAttempts,
		cfg.Gateway.Backoff,
		gateway.NewCircuitBreaker(cfg.Gateway.BreakerFailures, cfg.Gateway.BreakerReset),
		logger,
	)

	//Usecase生成
	v := validator.NewOrderValidator(userRepo)
	lifecycle := usecase.NewOrderLifecycle(txm, sellerRepo, gw, publisher, v, logger, cfg.Gateway.Currency, cfg.Gateway.KeyID)
	checkout := usecase.NewCheckoutUsecase(txm, lifecycle, v)
	queries := usecase.NewOrderQueryUsecase(txm)
	catalog := usecase.NewCatalogUsecase(catalogSellers, catalogProducts)

	//Handler生成
	e := server.NewRouter(cfg, logger, sqlDB, server.Handlers{
		User:   handler.NewUserHandler(checkout, lifecycle, queries, catalog),
		Seller: handler.NewSellerHandler(lifecycle, queries),
		Admin:  handler.NewAdminHandler(queries),
	})

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty: seller routes are not authenticated")
	}

	//Server起動（SIGINT/SIGTERMで停止）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, server.Addr(cfg.Port), e, logger); err != nil {
		logger.Fatal("http server error", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProd() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
