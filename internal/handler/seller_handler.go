package handler

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SellerHandler struct {
	lifecycle Lifecycle
	queries   OrderQueries
}

func NewSellerHandler(lifecycle Lifecycle, queries OrderQueries) *SellerHandler {
	return &SellerHandler{lifecycle: lifecycle, queries: queries}
}

type UpdateStatusRequest struct {
	OrderID        string `json:"orderId"`
	SellerID       string `json:"sellerId"`
	Status         string `json:"status"`
	LogisticName   string `json:"logisticName"`
	TrackingNumber string `json:"trackingNumber"`
	Reason         string `json:"reason"`
}

// JWT_SECRETがあるときだけ認証を掛ける
func (h *SellerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller")
	if cfg.JWTSecret != "" {
		g.Use(middleware.AuthJWT(cfg))
		g.Use(middleware.RequireRole(model.RoleSeller))
	}

	g.PATCH("/updatestatus", h.updateStatus)
	g.GET("/logistics/:orderId", h.logistics)
	g.GET("/fetchorders/:sellerId", h.fetchOrders)
}

func (h *SellerHandler) updateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !actingAs(c, req.SellerID) {
		return writeError(c, usecase.NewError(usecase.KindNotAuthorized, "seller mismatch"))
	}

	out, err := h.lifecycle.AdvanceFulfillment(c.Request().Context(), usecase.AdvanceFulfillmentInput{
		OrderID:        req.OrderID,
		SellerID:       req.SellerID,
		Status:         req.Status,
		Carrier:        req.LogisticName,
		TrackingNumber: req.TrackingNumber,
		Reason:         req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerHandler) logistics(c echo.Context) error {
	out, err := h.lifecycle.GetLogistic(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerHandler) fetchOrders(c echo.Context) error {
	sellerID := c.Param("sellerId")
	if !actingAs(c, sellerID) {
		return writeError(c, usecase.NewError(usecase.KindNotAuthorized, "seller mismatch"))
	}
	page, limit, ok := parsePaging(c)
	if !ok {
		return badRequest(c, "invalid paging")
	}

	out, err := h.queries.ListSellerOrders(c.Request().Context(), sellerID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// トークンがあればsubと一致する出品者としてしか操作できない（adminは除く）
func actingAs(c echo.Context, sellerID string) bool {
	sub, ok := middleware.SubjectFromContext(c)
	if !ok {
		return true
	}
	if role, _ := c.Get(middleware.CtxRoleKey).(string); model.Role(role) == model.RoleAdmin {
		return true
	}
	return sub == sellerID
}
