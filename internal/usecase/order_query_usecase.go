package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type OrderQueryUsecase struct {
	tx repo.TransactionManager
}

func NewOrderQueryUsecase(tx repo.TransactionManager) *OrderQueryUsecase {
	return &OrderQueryUsecase{tx: tx}
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type StatusHistoryOutput struct {
	Action    model.AuditAction `json:"action"`
	ActorID   string            `json:"actor_id"`
	Before    string            `json:"before"`
	After     string            `json:"after"`
	CreatedAt time.Time         `json:"created_at"`
}

type OrderDetailOutput struct {
	Order    OrderOutput           `json:"order"`
	Payment  *PaymentOutput        `json:"payment,omitempty"`
	Logistic *LogisticOutput       `json:"logistic,omitempty"`
	History  []StatusHistoryOutput `json:"history"`
}

type SellerOrderOutput struct {
	OrderOutput
	Payment *PaymentOutput `json:"payment,omitempty"`
}

type SellerOrderListOutput struct {
	Items []SellerOrderOutput `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		return 0, 0, NewError(KindValidation, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return 0, 0, NewError(KindValidation, "invalid limit")
	}
	return page, limit, nil
}

// 自分の注文一覧（新しい順）
func (u *OrderQueryUsecase) ListUserOrders(ctx context.Context, userID string, page, limit int) (OrderListOutput, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return OrderListOutput{}, NewError(KindValidation, "user id is required")
	}
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{Items: []OrderOutput{}, Page: page, Limit: limit}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return internalError("db error", err)
		}
		out.Total = total

		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return internalError("db error", err)
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// 他人の注文は存在しない扱い（404）
func (u *OrderQueryUsecase) GetUserOrder(ctx context.Context, userID string, orderID string) (OrderDetailOutput, error) {
	userID = strings.TrimSpace(userID)
	orderID = strings.TrimSpace(orderID)
	if userID == "" || orderID == "" {
		return OrderDetailOutput{}, NewError(KindValidation, "user id and order id are required")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "order not found")
		}
		if err != nil {
			return internalError("db error", err)
		}
		if o.UserID != userID {
			return NewError(KindNotFound, "order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return internalError("db error", err)
		}
		out.Order = toOrderOutput(o, items)

		p, err := r.Payments().FindByOrderID(ctx, orderID)
		switch {
		case err == nil:
			out.Payment = toPaymentOutput(p)
		case !errors.Is(err, repo.ErrNotFound):
			return internalError("db error", err)
		}

		l, err := r.Logistics().FindByOrderID(ctx, orderID)
		switch {
		case err == nil:
			out.Logistic = toLogisticOutput(l)
		case !errors.Is(err, repo.ErrNotFound):
			return internalError("db error", err)
		}

		resourceType := model.AuditResourceOrder
		logs, err := r.AuditLogs().List(ctx, repo.AuditLogFilter{
			ResourceType: &resourceType,
			ResourceID:   &orderID,
			Limit:        100,
		})
		if err != nil {
			return internalError("db error", err)
		}
		out.History = make([]StatusHistoryOutput, 0, len(logs))
		for _, l := range logs {
			out.History = append(out.History, StatusHistoryOutput{
				Action:    l.Action,
				ActorID:   l.ActorID,
				Before:    l.BeforeJSON,
				After:     l.AfterJSON,
				CreatedAt: l.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

// 出品者の注文一覧。決済済みなら決済情報も付ける
func (u *OrderQueryUsecase) ListSellerOrders(ctx context.Context, sellerID string, page, limit int) (SellerOrderListOutput, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return SellerOrderListOutput{}, NewError(KindValidation, "seller id is required")
	}
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return SellerOrderListOutput{}, err
	}

	out := SellerOrderListOutput{Items: []SellerOrderOutput{}, Page: page, Limit: limit}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListBySellerID(ctx, sellerID, page, limit)
		if err != nil {
			return internalError("db error", err)
		}
		out.Total = total

		ids := make([]string, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.OrderID)
		}
		payments, err := r.Payments().ListByOrderIDs(ctx, ids)
		if err != nil {
			return internalError("db error", err)
		}
		byOrder := make(map[string]model.Payment, len(payments))
		for _, p := range payments {
			if _, ok := byOrder[p.OrderID]; !ok {
				byOrder[p.OrderID] = p
			}
		}

		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return internalError("db error", err)
			}
			so := SellerOrderOutput{OrderOutput: toOrderOutput(o, items)}
			if p, ok := byOrder[o.OrderID]; ok {
				so.Payment = toPaymentOutput(p)
			}
			out.Items = append(out.Items, so)
		}
		return nil
	})
	if err != nil {
		return SellerOrderListOutput{}, err
	}
	return out, nil
}

// FindUnreconciled はゲートウェイ決済でConfirmed以降なのにPaymentが無い注文を返す（修復対象）
func (u *OrderQueryUsecase) FindUnreconciled(ctx context.Context, limit int) ([]OrderOutput, error) {
	if limit == 0 {
		limit = 100
	}
	if limit < 1 || limit > 500 {
		return []OrderOutput{}, NewError(KindValidation, "invalid limit")
	}

	outs := []OrderOutput{}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListPaidWithoutPayment(ctx, limit)
		if err != nil {
			return internalError("db error", err)
		}
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o, nil))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}
