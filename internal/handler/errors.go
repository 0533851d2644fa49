package handler

import (
	"net/http"
	"strconv"

	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// 種類→HTTPステータス
var statusByKind = map[usecase.ErrorKind]int{
	usecase.KindValidation:         http.StatusBadRequest,
	usecase.KindMixedSeller:        http.StatusBadRequest,
	usecase.KindInvalidSignature:   http.StatusBadRequest,
	usecase.KindNotAuthorized:      http.StatusForbidden,
	usecase.KindNotFound:           http.StatusNotFound,
	usecase.KindNoLogisticRecord:   http.StatusNotFound,
	usecase.KindInvalidTransition:  http.StatusConflict,
	usecase.KindAlreadyTerminal:    http.StatusConflict,
	usecase.KindAlreadyShipped:     http.StatusConflict,
	usecase.KindDuplicatePayment:   http.StatusConflict,
	usecase.KindGatewayUnavailable: http.StatusServiceUnavailable,
	usecase.KindInternal:           http.StatusInternalServerError,
}

func StatusFor(kind usecase.ErrorKind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	e, ok := usecase.AsError(err)
	if !ok || e.Kind == usecase.KindInternal {
		//原因は外に出さない
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: string(usecase.KindInternal)})
	}
	return c.JSON(StatusFor(e.Kind), ErrorResponse{Error: e.Error(), Kind: string(e.Kind)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: string(usecase.KindValidation)})
}

// page / limit（未指定は0でusecase側のデフォルト）
func parsePaging(c echo.Context) (int, int, bool) {
	page, limit := 0, 0
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		limit = l
	}
	return page, limit, true
}
