package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// unique制約違反（transaction_id / order_id など）
	ErrDuplicate = errors.New("duplicate")
)

// 商品カタログは外部管理。ここでは読み取りだけを約束。
type ProductRepository interface {
	FindByProductID(ctx context.Context, productID string) (model.Product, error)
}
