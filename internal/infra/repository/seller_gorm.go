package repository

import (
	"context"

	"marketplace/internal/domain/model"
	domainrepo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type SellerGormRepository struct {
	db *gorm.DB
}

func NewSellerGormRepository(db *gorm.DB) *SellerGormRepository {
	return &SellerGormRepository{db: db}
}

func (r *SellerGormRepository) FindBySellerID(ctx context.Context, sellerID string) (model.Seller, error) {
	var s model.Seller
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&s).Error
	if isNotFound(err) {
		return model.Seller{}, domainrepo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}
