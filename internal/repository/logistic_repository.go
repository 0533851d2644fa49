package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type LogisticRepository interface {
	// 1注文1件。既にあればErrDuplicate
	Create(ctx context.Context, l model.Logistic) error
	FindByOrderID(ctx context.Context, orderID string) (model.Logistic, error)
	UpdateStatus(ctx context.Context, orderID string, status model.LogisticStatus) error
}
