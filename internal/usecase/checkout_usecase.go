package usecase

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// CheckoutUsecase はbuy-now / カート / makepayment / COD の入口。
// 注文の組み立てだけを行い、状態遷移はOrderLifecycleに任せる。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	lifecycle *OrderLifecycle
	validator OrderValidator
}

func NewCheckoutUsecase(tx repo.TransactionManager, lifecycle *OrderLifecycle, validator OrderValidator) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, lifecycle: lifecycle, validator: validator}
}

// 1商品だけ即購入
func (u *CheckoutUsecase) BuyNow(ctx context.Context, userID string, productID string, quantity int64) (DraftOrderOutput, error) {
	if err := u.validator.ValidateBuyer(ctx, userID); err != nil {
		return DraftOrderOutput{}, err
	}
	return u.lifecycle.CreateDraftOrder(ctx, DraftOrderInput{
		UserID: userID,
		Items:  []LineItemInput{{ProductID: productID, Quantity: quantity}},
	})
}

// カートの中身で注文。出品者は1人に限る。読んだ明細だけを注文と同じTxで消す。
func (u *CheckoutUsecase) BuyFromCart(ctx context.Context, userID string) (DraftOrderOutput, error) {
	if err := u.validator.ValidateBuyer(ctx, userID); err != nil {
		return DraftOrderOutput{}, err
	}

	cartID, cartItems, err := u.loadCart(ctx, userID)
	if err != nil {
		return DraftOrderOutput{}, err
	}

	return u.lifecycle.CreateDraftOrder(ctx, DraftOrderInput{
		UserID:              userID,
		Items:               toLineItems(cartItems),
		RequireSingleSeller: true,
		CartID:              cartID,
		CartItemIDs:         cartItemIDs(cartItems),
	})
}

// InitiatePayment は/makepayment。送られてきた価格と合計は無視してカタログ価格で計算する。
func (u *CheckoutUsecase) InitiatePayment(ctx context.Context, userID string, items []LineItemInput) (DraftOrderOutput, error) {
	if err := u.validator.ValidateBuyer(ctx, userID); err != nil {
		return DraftOrderOutput{}, err
	}
	return u.lifecycle.CreateDraftOrder(ctx, DraftOrderInput{
		UserID: userID,
		Items:  items,
	})
}

type PayWithCODInput struct {
	UserID   string
	SellerID string
	Items    []LineItemInput
	// trueなら注文した商品のカート明細を消す（itemsが空ならカートの中身を使う）
	FromCart bool
}

func (u *CheckoutUsecase) PayWithCOD(ctx context.Context, in PayWithCODInput) (OrderOutput, error) {
	if err := u.validator.ValidateBuyer(ctx, in.UserID); err != nil {
		return OrderOutput{}, err
	}

	draft := DraftOrderInput{
		UserID:   in.UserID,
		SellerID: in.SellerID,
		Items:    in.Items,
	}

	if in.FromCart {
		cartID, cartItems, err := u.loadCart(ctx, in.UserID)
		if err != nil {
			return OrderOutput{}, err
		}
		draft.CartID = cartID
		draft.RequireSingleSeller = true
		if len(draft.Items) == 0 {
			draft.Items = toLineItems(cartItems)
		} else {
			cartItems = matchCartItems(cartItems, draft.Items)
		}
		draft.CartItemIDs = cartItemIDs(cartItems)
	}

	return u.lifecycle.PlaceCashOnDeliveryOrder(ctx, draft)
}

func (u *CheckoutUsecase) loadCart(ctx context.Context, userID string) (int64, []model.CartItem, error) {
	var (
		cartID int64
		items  []model.CartItem
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindValidation, "cart is empty")
		}
		if err != nil {
			return internalError("db error", err)
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internalError("db error", err)
		}
		if len(cartItems) == 0 {
			return NewError(KindValidation, "cart is empty")
		}

		cartID = cart.ID
		items = cartItems
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return cartID, items, nil
}

func toLineItems(cartItems []model.CartItem) []LineItemInput {
	items := make([]LineItemInput, 0, len(cartItems))
	for _, ci := range cartItems {
		items = append(items, LineItemInput{ProductID: ci.ProductID, Quantity: ci.Quantity})
	}
	return items
}

func cartItemIDs(cartItems []model.CartItem) []int64 {
	ids := make([]int64, 0, len(cartItems))
	for _, ci := range cartItems {
		ids = append(ids, ci.ID)
	}
	return ids
}

// 注文に含まれる商品のカート明細だけ
func matchCartItems(cartItems []model.CartItem, ordered []LineItemInput) []model.CartItem {
	want := make(map[string]struct{}, len(ordered))
	for _, li := range ordered {
		want[li.ProductID] = struct{}{}
	}
	out := make([]model.CartItem, 0, len(cartItems))
	for _, ci := range cartItems {
		if _, ok := want[ci.ProductID]; ok {
			out = append(out, ci)
		}
	}
	return out
}
