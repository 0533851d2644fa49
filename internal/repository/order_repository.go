package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, page int, limit int) ([]model.Order, int64, error)
	// order_idが重複したらErrDuplicate
	Create(ctx context.Context, order model.Order) (int64, error)

	// 現在のステータスがfromのどれかのときだけtoへ更新する（条件付きUPDATE）。
	// 更新できたらtrue。reasonが空でなければcancellation_reasonも書く。
	UpdateStatusIf(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus, reason string) (bool, error)

	// ゲートウェイ決済なのにpaymentsが無い確定済み注文（照合用）
	ListPaidWithoutPayment(ctx context.Context, limit int) ([]model.Order, error)
}
