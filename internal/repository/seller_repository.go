package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type SellerRepository interface {
	FindBySellerID(ctx context.Context, sellerID string) (model.Seller, error)
}
