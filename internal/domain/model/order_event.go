package model

import "time"

// 注文ライフサイクルのイベント種別
const (
	OrderEventPlaced    = "order.placed"
	OrderEventConfirmed = "order.confirmed"
	OrderEventShipped   = "order.shipped"
	OrderEventDelivered = "order.delivered"
	OrderEventCancelled = "order.cancelled"
)

// OrderEvent はコミット後に外へ流す通知
type OrderEvent struct {
	EventType     string        `json:"event_type"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	SellerID      string        `json:"seller_id"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalPrice    string        `json:"total_price"`
	Reason        string        `json:"reason,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewOrderEvent(eventType string, o Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventType:     eventType,
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		SellerID:      o.SellerID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		Reason:        o.CancellationReason,
		OccurredAt:    at,
	}
}

// ステータスから対応するイベント種別を引く
func OrderEventTypeFor(s OrderStatus) string {
	switch s {
	case OrderStatusPending:
		return OrderEventPlaced
	case OrderStatusConfirmed:
		return OrderEventConfirmed
	case OrderStatusShipped:
		return OrderEventShipped
	case OrderStatusDelivered:
		return OrderEventDelivered
	case OrderStatusCancelled:
		return OrderEventCancelled
	}
	return ""
}
