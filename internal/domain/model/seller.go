package model

import "time"

// 公開プロフィールのみ（パスワード等はこのサービスでは持たない）
type Seller struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	SellerID  string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"seller_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
