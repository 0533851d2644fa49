package handler

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type Checkout interface {
	BuyNow(ctx context.Context, userID string, productID string, quantity int64) (usecase.DraftOrderOutput, error)
	BuyFromCart(ctx context.Context, userID string) (usecase.DraftOrderOutput, error)
	InitiatePayment(ctx context.Context, userID string, items []usecase.LineItemInput) (usecase.DraftOrderOutput, error)
	PayWithCOD(ctx context.Context, in usecase.PayWithCODInput) (usecase.OrderOutput, error)
}

type Lifecycle interface {
	ConfirmGatewayPayment(ctx context.Context, in usecase.ConfirmPaymentInput) (usecase.ConfirmPaymentOutput, error)
	RecordGatewayFailure(ctx context.Context, orderID string, reason string) (usecase.OrderOutput, error)
	AdvanceFulfillment(ctx context.Context, in usecase.AdvanceFulfillmentInput) (usecase.AdvanceFulfillmentOutput, error)
	GetLogistic(ctx context.Context, orderID string) (usecase.LogisticOutput, error)
}

type OrderQueries interface {
	ListUserOrders(ctx context.Context, userID string, page, limit int) (usecase.OrderListOutput, error)
	GetUserOrder(ctx context.Context, userID string, orderID string) (usecase.OrderDetailOutput, error)
	ListSellerOrders(ctx context.Context, sellerID string, page, limit int) (usecase.SellerOrderListOutput, error)
	FindUnreconciled(ctx context.Context, limit int) ([]usecase.OrderOutput, error)
}

type Catalog interface {
	GetSeller(ctx context.Context, sellerID string) (model.Seller, error)
	GetProduct(ctx context.Context, productID string) (model.Product, error)
}

// /user の購入者向けAPI
type UserHandler struct {
	checkout  Checkout
	lifecycle Lifecycle
	queries   OrderQueries
	catalog   Catalog
}

// DI
func NewUserHandler(checkout Checkout, lifecycle Lifecycle, queries OrderQueries, catalog Catalog) *UserHandler {
	return &UserHandler{checkout: checkout, lifecycle: lifecycle, queries: queries, catalog: catalog}
}

type BuyNowRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type ProductLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`

	//受け取るが使わない（価格はカタログから）
	Price decimal.Decimal `json:"price"`
}

type MakePaymentRequest struct {
	UserID     string          `json:"userId"`
	Products   []ProductLine   `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type VerifyOrderRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type PaymentFailedRequest struct {
	OrderID string `json:"razorpay_order_id"`
	Error   struct {
		Description string `json:"description"`
	} `json:"error"`
}

type PayWithCODRequest struct {
	UserID   string        `json:"userId"`
	SellerID string        `json:"sellerId"`
	Products []ProductLine `json:"products"`
	FromCart bool          `json:"fromCart"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/user")

	g.POST("/buyNow/:userId", h.buyNow)
	g.POST("/buyfromcart/:userId", h.buyFromCart)
	g.POST("/makepayment", h.makePayment)
	g.POST("/verifyorder", h.verifyOrder)
	g.POST("/paymentfailed", h.paymentFailed)
	g.POST("/paywithcod", h.payWithCOD)

	g.GET("/logistics/:orderId", h.logistics)
	g.GET("/fetchorders/:userId", h.fetchOrders)
	g.GET("/fetchorderbyid/:userId/:id", h.fetchOrderByID)
	g.GET("/getSeller/:id", h.getSeller)
	g.GET("/getProduct/:id", h.getProduct)
}

func (h *UserHandler) buyNow(c echo.Context) error {
	var req BuyNowRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.checkout.BuyNow(c.Request().Context(), c.Param("userId"), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) buyFromCart(c echo.Context) error {
	out, err := h.checkout.BuyFromCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) makePayment(c echo.Context) error {
	var req MakePaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.checkout.InitiatePayment(c.Request().Context(), req.UserID, toLineItems(req.Products))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) verifyOrder(c echo.Context) error {
	var req VerifyOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.lifecycle.ConfirmGatewayPayment(c.Request().Context(), usecase.ConfirmPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) paymentFailed(c echo.Context) error {
	var req PaymentFailedRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.lifecycle.RecordGatewayFailure(c.Request().Context(), req.OrderID, req.Error.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) payWithCOD(c echo.Context) error {
	var req PayWithCODRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.checkout.PayWithCOD(c.Request().Context(), usecase.PayWithCODInput{
		UserID:   req.UserID,
		SellerID: req.SellerID,
		Items:    toLineItems(req.Products),
		FromCart: req.FromCart,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) logistics(c echo.Context) error {
	out, err := h.lifecycle.GetLogistic(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) fetchOrders(c echo.Context) error {
	page, limit, ok := parsePaging(c)
	if !ok {
		return badRequest(c, "invalid paging")
	}

	out, err := h.queries.ListUserOrders(c.Request().Context(), c.Param("userId"), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) fetchOrderByID(c echo.Context) error {
	out, err := h.queries.GetUserOrder(c.Request().Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) getSeller(c echo.Context) error {
	out, err := h.catalog.GetSeller(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) getProduct(c echo.Context) error {
	out, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func toLineItems(lines []ProductLine) []usecase.LineItemInput {
	items := make([]usecase.LineItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, usecase.LineItemInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items
}
