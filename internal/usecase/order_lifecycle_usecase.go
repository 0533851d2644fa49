package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/gateway"
	"marketplace/internal/metrics"
	repo "marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultFailureReason = "Payment failed"

var tracer = otel.Tracer("marketplace/usecase")

// 決済ゲートウェイ（テストでは差し替える）
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (gateway.Intent, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// コミット後の通知先
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// OrderLifecycle は注文ステータスの遷移と、それに付随する決済/配送レコードを管理する。
type OrderLifecycle struct {
	tx        repo.TransactionManager
	sellers   repo.SellerRepository
	gateway   PaymentGateway
	events    EventPublisher
	validator OrderValidator
	logger    *zap.Logger
	currency  string
	keyID     string

	now   func() time.Time
	newID func() string
}

// DI
func NewOrderLifecycle(
	tx repo.TransactionManager,
	sellers repo.SellerRepository,
	gw PaymentGateway,
	events EventPublisher,
	validator OrderValidator,
	logger *zap.Logger,
	currency string,
	keyID string,
) *OrderLifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderLifecycle{
		tx:        tx,
		sellers:   sellers,
		gateway:   gw,
		events:    events,
		validator: validator,
		logger:    logger,
		currency:  currency,
		keyID:     keyID,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

type LineItemInput struct {
	ProductID string
	Quantity  int64
}

type DraftOrderInput struct {
	UserID string
	// 空なら商品の出品者から決める
	SellerID string
	Items    []LineItemInput
	// カート購入のとき複数出品者を拒否する
	RequireSingleSeller bool
	// 注文した分のカート明細。同じTxで消す
	CartID      int64
	CartItemIDs []int64
}

type DraftOrderOutput struct {
	Order  OrderOutput    `json:"order"`
	Intent gateway.Intent `json:"intent"`
	// 決済フォーム用の公開キー（secretは出さない）
	KeyID string `json:"key_id"`
}

type ConfirmPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

type ConfirmPaymentOutput struct {
	Order   OrderOutput    `json:"order"`
	Payment *PaymentOutput `json:"payment"`
}

type AdvanceFulfillmentInput struct {
	OrderID        string
	SellerID       string
	Status         string
	Carrier        string
	TrackingNumber string
	Reason         string
}

type AdvanceFulfillmentOutput struct {
	Order    OrderOutput     `json:"order"`
	Logistic *LogisticOutput `json:"logistic,omitempty"`
}

// 価格確定済みの下書き
type pricedDraft struct {
	sellerID string
	items    []model.OrderItem
	total    decimal.Decimal
}

// CreateDraftOrder はゲートウェイの注文を先に作り、成功したときだけPendingの注文を保存する。
func (u *OrderLifecycle) CreateDraftOrder(ctx context.Context, in DraftOrderInput) (DraftOrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderLifecycle.CreateDraftOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", in.UserID))

	draft, err := u.price(ctx, in)
	if err != nil {
		recordSpanError(span, err)
		return DraftOrderOutput{}, err
	}

	//ゲートウェイは最小単位（paise）
	amountMinor := draft.total.Shift(2).Round(0).IntPart()
	receipt := fmt.Sprintf("receipt_%d", u.now().UnixMilli())

	intent, err := u.gateway.CreateIntent(ctx, amountMinor, u.currency, receipt)
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, gateway.ErrUnavailable) {
			u.logger.Warn("payment gateway unavailable", zap.String("user_id", in.UserID), zap.Error(err))
			return DraftOrderOutput{}, &Error{Kind: KindGatewayUnavailable, Message: "payment gateway unavailable", Err: err}
		}
		u.logger.Error("payment gateway rejected order", zap.String("user_id", in.UserID), zap.Error(err))
		return DraftOrderOutput{}, internalError("payment gateway error", err)
	}
	span.SetAttributes(attribute.String("order.id", intent.ID))

	now := u.now()
	order := model.Order{
		OrderID:       intent.ID,
		UserID:        in.UserID,
		SellerID:      draft.sellerID,
		TotalPrice:    draft.total,
		Status:        model.OrderStatusPending,
		PaymentMethod: model.PaymentMethodRazorpay,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.persistNewOrder(ctx, order, draft.items, in); err != nil {
		recordSpanError(span, err)
		return DraftOrderOutput{}, err
	}

	metrics.RecordOrderTransition(string(model.OrderStatusPending))
	u.publish(ctx, model.OrderEventPlaced, order)

	return DraftOrderOutput{
		Order:  toOrderOutput(order, draft.items),
		Intent: intent,
		KeyID:  u.keyID,
	}, nil
}

// PlaceCashOnDeliveryOrder はゲートウェイを通さず、Confirmedで直接作る（Paymentは作らない）。
func (u *OrderLifecycle) PlaceCashOnDeliveryOrder(ctx context.Context, in DraftOrderInput) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderLifecycle.PlaceCashOnDeliveryOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", in.UserID))

	draft, err := u.price(ctx, in)
	if err != nil {
		recordSpanError(span, err)
		return OrderOutput{}, err
	}

	now := u.now()
	order := model.Order{
		OrderID:       u.codOrderID(now),
		UserID:        in.UserID,
		SellerID:      draft.sellerID,
		TotalPrice:    draft.total,
		Status:        model.OrderStatusConfirmed,
		PaymentMethod: model.PaymentMethodCOD,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	span.SetAttributes(attribute.String("order.id", order.OrderID))

	if err := u.persistNewOrder(ctx, order, draft.items, in); err != nil {
		recordSpanError(span, err)
		return OrderOutput{}, err
	}

	metrics.RecordOrderTransition(string(model.OrderStatusConfirmed))
	u.publish(ctx, model.OrderEventConfirmed, order)

	return toOrderOutput(order, draft.items), nil
}

// COD-<unix ms>-<8桁hex>
func (u *OrderLifecycle) codOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(u.newID(), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("COD-%d-%s", now.UnixMilli(), suffix)
}

// ConfirmGatewayPayment は署名を検証してPending→Confirmedにし、Paymentを1件だけ作る。
func (u *OrderLifecycle) ConfirmGatewayPayment(ctx context.Context, in ConfirmPaymentInput) (ConfirmPaymentOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderLifecycle.ConfirmGatewayPayment")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.String("payment.id", in.PaymentID),
	)

	if err := u.validator.ValidatePaymentCallback(in); err != nil {
		return ConfirmPaymentOutput{}, err
	}

	//署名NGなら何も書かない
	if !u.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		u.logger.Warn("payment signature mismatch",
			zap.String("order_id", in.OrderID),
			zap.String("payment_id", in.PaymentID),
		)
		metrics.RecordPaymentConfirmation("invalid_signature")
		err := NewError(KindInvalidSignature, "invalid payment signature")
		recordSpanError(span, err)
		return ConfirmPaymentOutput{}, err
	}

	var (
		confirmed model.Order
		payment   model.Payment
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByOrderID(ctx, in.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError("db error", err)
		}

		//同じtransaction_idは1回だけ
		_, err = r.Payments().FindByTransactionID(ctx, in.PaymentID)
		if err == nil {
			return NewError(KindDuplicatePayment, "payment already recorded")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return internalError("db error", err)
		}

		ok, err := r.Orders().UpdateStatusIf(ctx, in.OrderID,
			[]model.OrderStatus{model.OrderStatusPending}, model.OrderStatusConfirmed, "")
		if err != nil {
			return internalError("db error", err)
		}
		if !ok {
			return u.explainConfirmConflict(ctx, r, in.OrderID)
		}

		now := u.now()
		payment = model.Payment{
			OrderID:       o.OrderID,
			UserID:        o.UserID,
			Amount:        o.TotalPrice,
			TransactionID: in.PaymentID,
			Method:        model.PaymentMethodRazorpay,
			Status:        model.PaymentStatusCompleted,
			PaidAt:        now,
			CreatedAt:     now,
		}
		if _, err := r.Payments().Create(ctx, payment); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewError(KindDuplicatePayment, "payment already recorded")
			}
			return internalError("db error", err)
		}

		before := o.Status
		o.Status = model.OrderStatusConfirmed
		o.UpdatedAt = now
		confirmed = o

		return writeAudit(ctx, r, model.AuditActorGateway, model.AuditActionConfirmPayment, o.OrderID,
			statusSnapshot{Status: before},
			statusSnapshot{Status: o.Status, TransactionID: in.PaymentID},
			now)
	})
	if err != nil {
		recordSpanError(span, err)
		u.logFailure("confirm payment failed", err, zap.String("order_id", in.OrderID), zap.String("payment_id", in.PaymentID))
		if KindOf(err) == KindDuplicatePayment {
			metrics.RecordPaymentConfirmation("duplicate")
		} else {
			metrics.RecordPaymentConfirmation("error")
		}
		return ConfirmPaymentOutput{}, err
	}

	metrics.RecordPaymentConfirmation("success")
	metrics.RecordOrderTransition(string(model.OrderStatusConfirmed))
	u.publish(ctx, model.OrderEventConfirmed, confirmed)

	return ConfirmPaymentOutput{
		Order:   toOrderOutput(confirmed, nil),
		Payment: toPaymentOutput(payment),
	}, nil
}

// 条件付きUPDATEが0件だった理由を、今の状態から判定する
func (u *OrderLifecycle) explainConfirmConflict(ctx context.Context, r repo.TxRepos, orderID string) error {
	cur, err := r.Orders().FindByOrderID(ctx, orderID)
	if err != nil {
		return internalError("db error", err)
	}
	if cur.Status != model.OrderStatusCancelled && cur.PaymentMethod == model.PaymentMethodRazorpay {
		_, err := r.Payments().FindByOrderID(ctx, orderID)
		if err == nil {
			return NewError(KindDuplicatePayment, "order already paid")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return internalError("db error", err)
		}
	}
	return newErrorf(KindInvalidTransition, "cannot confirm order in status %s", cur.Status)
}

// RecordGatewayFailure は未終端の注文をCancelledにして理由を残す。
func (u *OrderLifecycle) RecordGatewayFailure(ctx context.Context, orderID string, reason string) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderLifecycle.RecordGatewayFailure")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderOutput{}, NewError(KindValidation, "order id is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultFailureReason
	}

	var cancelled model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError("db error", err)
		}
		if o.Status.IsTerminal() {
			return newErrorf(KindAlreadyTerminal, "order already %s", o.Status)
		}

		ok, err := r.Orders().UpdateStatusIf(ctx, orderID, model.NonTerminalOrderStatuses(), model.OrderStatusCancelled, reason)
		if err != nil {
			return internalError("db error", err)
		}
		if !ok {
			//読んだ後に別リクエストが終端にした
			return NewError(KindAlreadyTerminal, "order already finished")
		}

		//配送レコードがあれば追従させる
		if _, err := r.Logistics().FindByOrderID(ctx, orderID); err == nil {
			if err := r.Logistics().UpdateStatus(ctx, orderID, model.LogisticStatusCancelled); err != nil {
				return internalError("db error", err)
			}
		} else if !errors.Is(err, repo.ErrNotFound) {
			return internalError("db error", err)
		}

		now := u.now()
		before := o.Status
		o.Status = model.OrderStatusCancelled
		o.CancellationReason = reason
		o.UpdatedAt = now
		cancelled = o

		return writeAudit(ctx, r, model.AuditActorGateway, model.AuditActionRecordPaymentFailure, orderID,
			statusSnapshot{Status: before},
			statusSnapshot{Status: o.Status, Reason: reason},
			now)
	})
	if err != nil {
		recordSpanError(span, err)
		u.logFailure("record payment failure failed", err, zap.String("order_id", orderID))
		return OrderOutput{}, err
	}

	u.logger.Info("order cancelled after payment failure",
		zap.String("order_id", orderID),
		zap.String("reason", reason),
	)
	metrics.RecordOrderTransition(string(model.OrderStatusCancelled))
	u.publish(ctx, model.OrderEventCancelled, cancelled)

	return toOrderOutput(cancelled, nil), nil
}

// AdvanceFulfillment は出品者による出荷/配達/キャンセル。
func (u *OrderLifecycle) AdvanceFulfillment(ctx context.Context, in AdvanceFulfillmentInput) (AdvanceFulfillmentOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderLifecycle.AdvanceFulfillment")
	defer span.End()
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.SellerID = strings.TrimSpace(in.SellerID)
	span.SetAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.String("seller.id", in.SellerID),
		attribute.String("order.target_status", in.Status),
	)

	if err := u.validator.ValidateStatusUpdate(in); err != nil {
		return AdvanceFulfillmentOutput{}, err
	}
	target, _ := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	carrier, _ := model.ParseCarrier(strings.TrimSpace(in.Carrier))

	var (
		updated  model.Order
		logistic *model.Logistic
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByOrderID(ctx, in.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError("db error", err)
		}

		//自分の注文だけ
		if o.SellerID != in.SellerID {
			return NewError(KindNotAuthorized, "order does not belong to seller")
		}

		//2回目の出荷はInvalidTransitionより先にAlreadyShippedで返す
		if target == model.OrderStatusShipped {
			_, err := r.Logistics().FindByOrderID(ctx, in.OrderID)
			if err == nil {
				return NewError(KindAlreadyShipped, "order already shipped")
			}
			if !errors.Is(err, repo.ErrNotFound) {
				return internalError("db error", err)
			}
		}

		//Confirmedにできるのは署名検証済みの決済だけ
		if target == model.OrderStatusConfirmed {
			return newErrorf(KindInvalidTransition, "cannot move order from %s to %s without a verified payment", o.Status, target)
		}
		if !o.Status.CanTransitionTo(target) {
			return newErrorf(KindInvalidTransition, "cannot move order from %s to %s", o.Status, target)
		}

		reason := ""
		if target == model.OrderStatusCancelled {
			reason = strings.TrimSpace(in.Reason)
			if reason == "" {
				reason = "Cancelled by seller"
			}
		}

		ok, err := r.Orders().UpdateStatusIf(ctx, in.OrderID, []model.OrderStatus{o.Status}, target, reason)
		if err != nil {
			return internalError("db error", err)
		}
		if !ok {
			return newErrorf(KindInvalidTransition, "order status changed from %s", o.Status)
		}

		switch target {
		case model.OrderStatusShipped:
			l := model.Logistic{
				OrderID:        in.OrderID,
				Carrier:        carrier,
				TrackingNumber: strings.TrimSpace(in.TrackingNumber),
				Status:         model.LogisticStatusShipped,
			}
			if err := r.Logistics().Create(ctx, l); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					return NewError(KindAlreadyShipped, "order already shipped")
				}
				return internalError("db error", err)
			}
			logistic = &l

		case model.OrderStatusDelivered, model.OrderStatusCancelled:
			//出荷前の注文には配送レコードが無いのが正しい
			if o.Status != model.OrderStatusShipped {
				break
			}
			ls := model.LogisticStatus(target)
			if err := r.Logistics().UpdateStatus(ctx, in.OrderID, ls); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewError(KindNoLogisticRecord, "logistic record not found for shipped order")
				}
				return internalError("db error", err)
			}
			l, err := r.Logistics().FindByOrderID(ctx, in.OrderID)
			if err != nil {
				return internalError("db error", err)
			}
			logistic = &l
		}

		now := u.now()
		before := o.Status
		o.Status = target
		o.UpdatedAt = now
		if reason != "" {
			o.CancellationReason = reason
		}
		updated = o

		after := statusSnapshot{Status: target, Reason: reason}
		if logistic != nil {
			after.Carrier = string(logistic.Carrier)
			after.TrackingNumber = logistic.TrackingNumber
		}
		return writeAudit(ctx, r, in.SellerID, model.AuditActionUpdateOrderStatus, in.OrderID,
			statusSnapshot{Status: before}, after, now)
	})
	if err != nil {
		recordSpanError(span, err)
		u.logFailure("advance fulfillment failed", err,
			zap.String("order_id", in.OrderID),
			zap.String("seller_id", in.SellerID),
			zap.String("status", in.Status),
		)
		return AdvanceFulfillmentOutput{}, err
	}

	u.logger.Info("order status updated",
		zap.String("order_id", in.OrderID),
		zap.String("seller_id", in.SellerID),
		zap.String("status", string(target)),
	)
	metrics.RecordOrderTransition(string(target))
	u.publish(ctx, model.OrderEventTypeFor(target), updated)

	out := AdvanceFulfillmentOutput{Order: toOrderOutput(updated, nil)}
	if logistic != nil {
		out.Logistic = toLogisticOutput(*logistic)
	}
	return out, nil
}

// GetLogistic は注文の配送レコードを返す
func (u *OrderLifecycle) GetLogistic(ctx context.Context, orderID string) (LogisticOutput, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return LogisticOutput{}, NewError(KindValidation, "order id is required")
	}

	var out LogisticOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		l, err := r.Logistics().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "logistic record not found")
		}
		if err != nil {
			return internalError("db error", err)
		}
		out = *toLogisticOutput(l)
		return nil
	})
	if err != nil {
		return LogisticOutput{}, err
	}
	return out, nil
}

// price は商品を引いて単価をスナップショットし、合計をサーバ側で計算する。
// クライアントが送ってきた価格や合計は使わない。
func (u *OrderLifecycle) price(ctx context.Context, in DraftOrderInput) (pricedDraft, error) {
	if err := u.validator.ValidateLineItems(in.Items); err != nil {
		return pricedDraft{}, err
	}

	var draft pricedDraft

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sellers := make(map[string]struct{})
		items := make([]model.OrderItem, 0, len(in.Items))

		for _, li := range in.Items {
			p, err := r.Products().FindByProductID(ctx, li.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return newErrorf(KindNotFound, "product not found: %s", li.ProductID)
			}
			if err != nil {
				return internalError("db error", err)
			}
			if !p.IsAvailable() {
				return newErrorf(KindValidation, "product not available: %s", li.ProductID)
			}

			if in.SellerID != "" && p.SellerID != in.SellerID {
				return newErrorf(KindMixedSeller, "product %s is not sold by %s", li.ProductID, in.SellerID)
			}
			if _, seen := sellers[p.SellerID]; !seen && len(sellers) > 0 && in.RequireSingleSeller {
				return NewError(KindMixedSeller, "items span multiple sellers")
			}
			sellers[p.SellerID] = struct{}{}

			//最初の商品の出品者を注文の出品者にする
			if draft.sellerID == "" {
				draft.sellerID = p.SellerID
			}

			items = append(items, model.OrderItem{
				ProductID:           p.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            li.Quantity,
				CreatedAt:           u.now(),
			})
		}

		draft.items = items
		draft.total = model.SumOrderItems(items)
		return nil
	})
	if err != nil {
		return pricedDraft{}, err
	}

	if in.SellerID != "" {
		if _, err := u.sellers.FindBySellerID(ctx, in.SellerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return pricedDraft{}, NewError(KindNotFound, "seller not found")
			}
			return pricedDraft{}, internalError("db error", err)
		}
	}

	return draft, nil
}

// 注文＋明細（＋注文したカート明細の削除）＋監査ログを1Txで
func (u *OrderLifecycle) persistNewOrder(ctx context.Context, order model.Order, items []model.OrderItem, in DraftOrderInput) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return internalError("db error", err)
		}
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return internalError("db error", err)
		}
		//注文中に追加された明細は残す
		if in.CartID > 0 && len(in.CartItemIDs) > 0 {
			if _, err := r.CartItems().DeleteByIDs(ctx, in.CartID, in.CartItemIDs); err != nil {
				return internalError("db error", err)
			}
		}
		return writeAudit(ctx, r, in.UserID, model.AuditActionPlaceOrder, order.OrderID,
			statusSnapshot{},
			statusSnapshot{Status: order.Status, Total: order.TotalPrice.StringFixed(2), Method: string(order.PaymentMethod)},
			order.CreatedAt)
	})
	if err != nil {
		u.logFailure("persist order failed", err, zap.String("order_id", order.OrderID))
		return err
	}
	return nil
}

// イベント送信の失敗は注文処理の失敗にしない（コミット済み）
func (u *OrderLifecycle) publish(ctx context.Context, eventType string, o model.Order) {
	if u.events == nil || eventType == "" {
		return
	}
	if err := u.events.Publish(ctx, model.NewOrderEvent(eventType, o, u.now())); err != nil {
		u.logger.Error("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.OrderID),
			zap.Error(err),
		)
	}
}

// Internalだけerrorで出す。4xx相当はinfoで十分
func (u *OrderLifecycle) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", string(KindOf(err))), zap.Error(err))
	if KindOf(err) == KindInternal {
		u.logger.Error(msg, fields...)
		return
	}
	u.logger.Info(msg, fields...)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", string(KindOf(err))))
}

// 監査ログのbefore/after
type statusSnapshot struct {
	Status         model.OrderStatus `json:"status,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	TransactionID  string            `json:"transaction_id,omitempty"`
	Carrier        string            `json:"logistic_name,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Total          string            `json:"total_price,omitempty"`
	Method         string            `json:"payment_method,omitempty"`
}

func writeAudit(ctx context.Context, r repo.TxRepos, actorID string, action model.AuditAction, orderID string, before, after statusSnapshot, at time.Time) error {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    at,
	}); err != nil {
		return internalError("db error", err)
	}
	return nil
}
