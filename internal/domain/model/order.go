package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// 許可される遷移（これ以外は全部拒否）
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
}

// ParseOrderStatus は文字列を既知のステータスに変換する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// Delivered / Cancelled は終端
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NonTerminalOrderStatuses はキャンセル可能な状態の一覧。
func NonTerminalOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped}
}

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "Razorpay"
	PaymentMethodCOD      PaymentMethod = "COD"
)

// OrderIDはゲートウェイの注文ID、またはCODで採番したID。外部にはこちらを出す。
type Order struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID            string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	UserID             string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	SellerID           string          `gorm:"type:varchar(64);not null;index" json:"seller_id"`
	TotalPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod      PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	CancellationReason string          `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
