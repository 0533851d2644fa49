package usecase

import (
	"time"

	"marketplace/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemOutput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	OrderID            string              `json:"order_id"`
	UserID             string              `json:"user_id"`
	SellerID           string              `json:"seller_id"`
	Status             model.OrderStatus   `json:"status"`
	PaymentMethod      model.PaymentMethod `json:"payment_method"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Items              []OrderItemOutput   `json:"items"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		OrderID:            o.OrderID,
		UserID:             o.UserID,
		SellerID:           o.SellerID,
		Status:             o.Status,
		PaymentMethod:      o.PaymentMethod,
		TotalPrice:         o.TotalPrice,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Items:              make([]OrderItemOutput, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}

type PaymentOutput struct {
	TransactionID string              `json:"transaction_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        model.PaymentMethod `json:"method"`
	Status        model.PaymentStatus `json:"status"`
	PaidAt        time.Time           `json:"paid_at"`
}

func toPaymentOutput(p model.Payment) *PaymentOutput {
	return &PaymentOutput{
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		PaidAt:        p.PaidAt,
	}
}

type LogisticOutput struct {
	OrderID        string               `json:"order_id"`
	Carrier        model.Carrier        `json:"logistic_name"`
	TrackingNumber string               `json:"tracking_number"`
	Status         model.LogisticStatus `json:"logistic_status"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toLogisticOutput(l model.Logistic) *LogisticOutput {
	return &LogisticOutput{
		OrderID:        l.OrderID,
		Carrier:        l.Carrier,
		TrackingNumber: l.TrackingNumber,
		Status:         l.Status,
		UpdatedAt:      l.UpdatedAt,
	}
}
