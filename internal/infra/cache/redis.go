package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func InitRedis(addr, password string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr))
	return rdb, nil
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }
func sellerKey(id string) string  { return fmt.Sprintf("seller:%s", id) }

// 公開プロフィール/商品の読み取り専用キャッシュ。
// Tx内の価格スナップショットはここを通らない（TxReposはDBを直接読む）。
type ProductRepository struct {
	next   repo.ProductRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// rdbがnilならnextをそのまま返す
func NewProductRepository(next repo.ProductRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) repo.ProductRepository {
	if rdb == nil {
		return next
	}
	return &ProductRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *ProductRepository) FindByProductID(ctx context.Context, productID string) (model.Product, error) {
	var p model.Product
	if get(ctx, r.rdb, productKey(productID), &p, r.logger) {
		return p, nil
	}

	p, err := r.next.FindByProductID(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}
	set(ctx, r.rdb, productKey(productID), p, r.ttl, r.logger)
	return p, nil
}

type SellerRepository struct {
	next   repo.SellerRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSellerRepository(next repo.SellerRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) repo.SellerRepository {
	if rdb == nil {
		return next
	}
	return &SellerRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *SellerRepository) FindBySellerID(ctx context.Context, sellerID string) (model.Seller, error) {
	var s model.Seller
	if get(ctx, r.rdb, sellerKey(sellerID), &s, r.logger) {
		return s, nil
	}

	s, err := r.next.FindBySellerID(ctx, sellerID)
	if err != nil {
		return model.Seller{}, err
	}
	set(ctx, r.rdb, sellerKey(sellerID), s, r.ttl, r.logger)
	return s, nil
}

// キャッシュの失敗はDBにフォールバックするだけ（エラーにしない）
func get(ctx context.Context, rdb *redis.Client, key string, dst interface{}, logger *zap.Logger) bool {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("cache entry broken", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func set(ctx context.Context, rdb *redis.Client, key string, v interface{}, ttl time.Duration, logger *zap.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
