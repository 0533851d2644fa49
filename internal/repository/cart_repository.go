package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)
}
