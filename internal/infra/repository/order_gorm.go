package repository

import (
	"context"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error
	if isNotFound(err) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	return r.list(ctx, "user_id = ?", userID, page, limit)
}

func (r *OrderGormRepository) ListBySellerID(ctx context.Context, sellerID string, page int, limit int) ([]model.Order, int64, error) {
	return r.list(ctx, "seller_id = ?", sellerID, page, limit)
}

func (r *OrderGormRepository) list(ctx context.Context, cond string, arg string, page int, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where(cond, arg).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, repo.ErrDuplicate
		}
		return 0, err
	}
	return order.ID, nil
}

// WHEREに現在のステータスを入れて、読んでから書くまでの間の競合を防ぐ
func (r *OrderGormRepository) UpdateStatusIf(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus, reason string) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}

	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["cancellation_reason"] = reason
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND status IN ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) ListPaidWithoutPayment(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("payment_method = ? AND status IN ?", model.PaymentMethodRazorpay, []model.OrderStatus{
			model.OrderStatusConfirmed,
			model.OrderStatusShipped,
			model.OrderStatusDelivered,
		}).
		Where("NOT EXISTS (SELECT 1 FROM payments WHERE payments.order_id = orders.order_id)").
		Order("id asc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}
