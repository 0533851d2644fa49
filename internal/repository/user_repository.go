package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type UserRepository interface {
	FindByUserID(ctx context.Context, userID string) (model.User, error)
}
