package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/middleware"
	"buildnchill-server/internal/service"
)

type WalletHandler struct {
	walletService   service.WalletService
	rechargeService service.RechargeService
}

func NewWalletHandler(walletService service.WalletService, rechargeService service.RechargeService) *WalletHandler {
	return &WalletHandler{
		walletService:   walletService,
		rechargeService: rechargeService,
	}
}

func (h *WalletHandler) Balance(c echo.Context) error {
	balance, err := h.walletService.Balance(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"balance": balance})
}

func (h *WalletHandler) Transactions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	txns, err := h.walletService.Transactions(c.Request().Context(), middleware.UserID(c), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, txns)
}

func (h *WalletHandler) SubmitRecharge(c echo.Context) error {
	var req dto.SubmitRechargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	recharge, err := h.rechargeService.Submit(c.Request().Context(), middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, recharge)
}

func (h *WalletHandler) MyRecharges(c echo.Context) error {
	recharges, err := h.rechargeService.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, recharges)
}

// -------- admin --------

func (h *WalletHandler) ListRecharges(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "all" {
		status = ""
	}
	recharges, err := h.rechargeService.List(c.Request().Context(), status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, recharges)
}

func (h *WalletHandler) ApproveRecharge(c echo.Context) error {
	if err := h.rechargeService.Approve(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WalletHandler) RejectRecharge(c echo.Context) error {
	if err := h.rechargeService.Reject(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WalletHandler) AdjustBalance(c echo.Context) error {
	var req dto.AdjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.walletService.AdminAdjust(c.Request().Context(), req.UserID, req.Amount, req.Note)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
