package usecase

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 出品者/商品の公開情報（読み取りのみ）
type CatalogUsecase struct {
	sellers  repo.SellerRepository
	products repo.ProductRepository
}

func NewCatalogUsecase(sellers repo.SellerRepository, products repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{sellers: sellers, products: products}
}

func (u *CatalogUsecase) GetSeller(ctx context.Context, sellerID string) (model.Seller, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return model.Seller{}, NewError(KindValidation, "seller id is required")
	}
	s, err := u.sellers.FindBySellerID(ctx, sellerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Seller{}, NewError(KindNotFound, "seller not found")
	}
	if err != nil {
		return model.Seller{}, internalError("db error", err)
	}
	return s, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return model.Product{}, NewError(KindValidation, "product id is required")
	}
	p, err := u.products.FindByProductID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, internalError("db error", err)
	}
	return p, nil
}
