package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 注文した明細だけ消す（cartIDの外は触らない）
	DeleteByIDs(ctx context.Context, cartID int64, ids []int64) (int64, error)
}
