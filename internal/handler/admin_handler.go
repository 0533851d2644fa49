package handler

import (
	"net/http"
	"strconv"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 運用者向け：決済の突き合わせ
type AdminHandler struct {
	queries OrderQueries
}

func NewAdminHandler(queries OrderQueries) *AdminHandler {
	return &AdminHandler{queries: queries}
}

type ReconciliationResponse struct {
	Count  int                   `json:"count"`
	Orders []usecase.OrderOutput `json:"orders"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.GET("/reconciliation", h.reconciliation)
}

func (h *AdminHandler) reconciliation(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}

	orders, err := h.queries.FindUnreconciled(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ReconciliationResponse{Count: len(orders), Orders: orders})
}
