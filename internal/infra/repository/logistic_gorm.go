package repository

import (
	"context"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type LogisticGormRepository struct {
	db *gorm.DB
}

func NewLogisticGormRepository(db *gorm.DB) *LogisticGormRepository {
	return &LogisticGormRepository{db: db}
}

// order_idのunique制約で1注文1件を保証
func (r *LogisticGormRepository) Create(ctx context.Context, l model.Logistic) error {
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		if isDuplicateKey(err) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *LogisticGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Logistic, error) {
	var l model.Logistic
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&l).Error
	if isNotFound(err) {
		return model.Logistic{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Logistic{}, err
	}
	return l, nil
}

func (r *LogisticGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.LogisticStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Logistic{}).
		Where("order_id = ?", orderID).
		Update("logistic_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
