package usecase

import "context"

// 入力チェックはvalidatorパッケージで実装してDIする
type OrderValidator interface {
	// userの存在確認（無ければNotFound）
	ValidateBuyer(ctx context.Context, userID string) error
	ValidateLineItems(items []LineItemInput) error
	ValidatePaymentCallback(in ConfirmPaymentInput) error
	ValidateStatusUpdate(in AdvanceFulfillmentInput) error
}
