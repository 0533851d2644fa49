package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusAvailable  ProductStatus = "Available"
	ProductStatusOutOfStock ProductStatus = "Out of Stock"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID   string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"product_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	SellerID    string          `gorm:"type:varchar(64);not null;index" json:"seller_id"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p Product) IsAvailable() bool {
	return p.Status == ProductStatusAvailable
}
