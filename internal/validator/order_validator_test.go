package validator

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/domain/model"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByUserID(ctx context.Context, userID string) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func TestValidateBuyer(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByUserID", mock.Anything, "U1").Return(model.User{UserID: "U1"}, nil)
	users.On("FindByUserID", mock.Anything, "U404").Return(model.User{}, repository.ErrNotFound)
	users.On("FindByUserID", mock.Anything, "Ubroken").Return(model.User{}, errors.New("conn reset"))

	v := NewOrderValidator(users)
	ctx := context.Background()

	assert.NoError(t, v.ValidateBuyer(ctx, "U1"))
	assert.ErrorIs(t, v.ValidateBuyer(ctx, "U404"), usecase.ErrNotFound)
	assert.ErrorIs(t, v.ValidateBuyer(ctx, "Ubroken"), usecase.ErrInternal)
	assert.ErrorIs(t, v.ValidateBuyer(ctx, ""), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateBuyer(ctx, "U 1; drop"), usecase.ErrValidation)

	users.AssertExpectations(t)
}

func TestValidateLineItems(t *testing.T) {
	v := NewOrderValidator(new(UserRepoMock))

	cases := []struct {
		name  string
		items []usecase.LineItemInput
		ok    bool
	}{
		{name: "ok", items: []usecase.LineItemInput{{ProductID: "P1", Quantity: 2}}, ok: true},
		{name: "empty", items: nil},
		{name: "quantity zero", items: []usecase.LineItemInput{{ProductID: "P1", Quantity: 0}}},
		{name: "quantity negative", items: []usecase.LineItemInput{{ProductID: "P1", Quantity: -1}}},
		{name: "no product id", items: []usecase.LineItemInput{{ProductID: " ", Quantity: 1}}},
		{name: "duplicate", items: []usecase.LineItemInput{{ProductID: "P1", Quantity: 1}, {ProductID: "P1", Quantity: 1}}},
		{name: "too many", items: []usecase.LineItemInput{{ProductID: "P1", Quantity: maxQuantity + 1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateLineItems(tc.items)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, usecase.ErrValidation)
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := NewOrderValidator(new(UserRepoMock))

	assert.NoError(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		OrderID: "order_1", SellerID: "S1", Status: "Shipped", Carrier: "DTDC", TrackingNumber: "T1",
	}))
	assert.NoError(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		OrderID: "order_1", SellerID: "S1", Status: "Delivered",
	}))

	//未知のステータス
	assert.ErrorIs(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		OrderID: "order_1", SellerID: "S1", Status: "Returned",
	}), usecase.ErrValidation)

	//出荷なのに業者なし / 不明な業者
	assert.ErrorIs(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		OrderID: "order_1", SellerID: "S1", Status: "Shipped",
	}), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		OrderID: "order_1", SellerID: "S1", Status: "Shipped", Carrier: "FEDEX",
	}), usecase.ErrValidation)

	assert.ErrorIs(t, v.ValidateStatusUpdate(usecase.AdvanceFulfillmentInput{
		SellerID: "S1", Status: "Shipped", Carrier: "DTDC",
	}), usecase.ErrValidation)
}

func TestValidatePaymentCallback(t *testing.T) {
	v := NewOrderValidator(new(UserRepoMock))

	assert.NoError(t, v.ValidatePaymentCallback(usecase.ConfirmPaymentInput{OrderID: "o", PaymentID: "p", Signature: "s"}))
	assert.ErrorIs(t, v.ValidatePaymentCallback(usecase.ConfirmPaymentInput{OrderID: "o", PaymentID: "p"}), usecase.ErrValidation)
}
