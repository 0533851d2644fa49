package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"
)

const (
	// 1注文あたりの明細数上限
	maxLineItems = 50
	// 1明細あたりの数量上限
	maxQuantity = 1000
)

// ID類（user_id / product_id / gatewayのorder_id等）
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

type orderValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewOrderValidator(users repository.UserRepository) usecase.OrderValidator {
	return &orderValidator{users: users}
}

// 購入者の存在確認（DBが必要）
func (v *orderValidator) ValidateBuyer(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return usecase.NewError(usecase.KindValidation, "user id is required")
	}
	if !isID(userID) {
		return usecase.NewError(usecase.KindValidation, "invalid user id")
	}

	_, err := v.users.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.NewError(usecase.KindNotFound, "user not found")
	}
	if err != nil {
		return &usecase.Error{Kind: usecase.KindInternal, Message: "db error", Err: err}
	}
	return nil
}

// 明細の形だけ見る（商品の存在・在庫状態はlifecycle側）
func (v *orderValidator) ValidateLineItems(items []usecase.LineItemInput) error {
	if len(items) == 0 {
		return usecase.NewError(usecase.KindValidation, "at least one item is required")
	}
	if len(items) > maxLineItems {
		return usecase.NewError(usecase.KindValidation, "too many items")
	}

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return usecase.NewError(usecase.KindValidation, "product id is required")
		}
		if !isID(it.ProductID) {
			return usecase.NewError(usecase.KindValidation, "invalid product id")
		}
		if it.Quantity < 1 {
			return usecase.NewError(usecase.KindValidation, "quantity must be >= 1")
		}
		if it.Quantity > maxQuantity {
			return usecase.NewError(usecase.KindValidation, "quantity too large")
		}
		// 同じ商品は1明細にまとめてもらう
		if _, dup := seen[it.ProductID]; dup {
			return usecase.NewError(usecase.KindValidation, "duplicate product in items")
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}

// ゲートウェイのコールバック入力
func (v *orderValidator) ValidatePaymentCallback(in usecase.ConfirmPaymentInput) error {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.PaymentID) == "" || strings.TrimSpace(in.Signature) == "" {
		return usecase.NewError(usecase.KindValidation, "order id, payment id and signature are required")
	}
	return nil
}

// 出品者のステータス更新
func (v *orderValidator) ValidateStatusUpdate(in usecase.AdvanceFulfillmentInput) error {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.SellerID) == "" || strings.TrimSpace(in.Status) == "" {
		return usecase.NewError(usecase.KindValidation, "missing required fields")
	}

	status, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return usecase.NewError(usecase.KindValidation, "invalid status")
	}

	// 出荷時は配送業者が必須
	if status == model.OrderStatusShipped {
		if _, ok := model.ParseCarrier(strings.TrimSpace(in.Carrier)); !ok {
			return usecase.NewError(usecase.KindValidation, "invalid logistic name")
		}
		if len(in.TrackingNumber) > 128 {
			return usecase.NewError(usecase.KindValidation, "tracking number too long")
		}
	}
	return nil
}

func isID(s string) bool {
	return idPattern.MatchString(s)
}
