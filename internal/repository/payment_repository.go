package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 決済記録は作成のみ（更新しない）
type PaymentRepository interface {
	// transaction_idが重複したらErrDuplicate
	Create(ctx context.Context, p model.Payment) (int64, error)
	FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (model.Payment, error)
	ListByOrderIDs(ctx context.Context, orderIDs []string) ([]model.Payment, error)
}
