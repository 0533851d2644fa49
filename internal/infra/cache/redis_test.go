package cache

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingProducts struct {
	calls int
}

func (c *countingProducts) FindByProductID(ctx context.Context, productID string) (model.Product, error) {
	c.calls++
	if productID == "missing" {
		return model.Product{}, repo.ErrNotFound
	}
	return model.Product{ProductID: productID, Name: "Pen", Price: decimal.NewFromInt(500), Status: model.ProductStatusAvailable}, nil
}

type countingSellers struct {
	calls int
}

func (c *countingSellers) FindBySellerID(ctx context.Context, sellerID string) (model.Seller, error) {
	c.calls++
	return model.Seller{SellerID: sellerID, Name: "Shop"}, nil
}

// 到達できないRedis
func deadRedis(t *testing.T) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNewProductRepository_NilClientPassesThrough(t *testing.T) {
	next := &countingProducts{}
	r := NewProductRepository(next, nil, time.Minute, zaptest.NewLogger(t))
	assert.Equal(t, repo.ProductRepository(next), r)

	s := &countingSellers{}
	assert.Equal(t, repo.SellerRepository(s), NewSellerRepository(s, nil, time.Minute, zaptest.NewLogger(t)))
}

func TestProductRepository_FallsBackWhenRedisDown(t *testing.T) {
	next := &countingProducts{}
	r := NewProductRepository(next, deadRedis(t), time.Minute, zaptest.NewLogger(t))

	p, err := r.FindByProductID(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Pen", p.Name)

	_, err = r.FindByProductID(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)

	_, err = r.FindByProductID(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSellerRepository_FallsBackWhenRedisDown(t *testing.T) {
	next := &countingSellers{}
	r := NewSellerRepository(next, deadRedis(t), time.Minute, zaptest.NewLogger(t))

	s, err := r.FindBySellerID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "Shop", s.Name)
	assert.Equal(t, 1, next.calls)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "product:P1", productKey("P1"))
	assert.Equal(t, "seller:S1", sellerKey("S1"))
}
