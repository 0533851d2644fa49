package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// 署名検証に成功したときだけ作る。作成後は更新しない。
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID       string          `gorm:"type:varchar(64);not null;index" json:"order_id"`
	UserID        string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionID string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"transaction_id"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
