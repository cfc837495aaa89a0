package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/model"
	"buildnchill-server/internal/service"
)

// OrdersHandler covers the admin order screens.
type OrdersHandler struct {
	orderService     service.OrderService
	dashboardService service.DashboardService
}

func NewOrdersHandler(orderService service.OrderService, dashboardService service.DashboardService) *OrdersHandler {
	return &OrdersHandler{
		orderService:     orderService,
		dashboardService: dashboardService,
	}
}

func (h *OrdersHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "all" {
		status = ""
	}
	orders, err := h.orderService.List(c.Request().Context(), status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrdersHandler) Get(c echo.Context) error {
	order, err := h.orderService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	var req dto.OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	switch req.Status {
	case model.OrderStatusPaid:
		order, err := h.orderService.MarkPaid(ctx, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, order)
	case model.OrderStatusDelivered:
		order, err := h.orderService.MarkDelivered(ctx, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, order)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status must be paid or delivered")
	}
}

func (h *OrdersHandler) Delete(c echo.Context) error {
	if err := h.orderService.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PendingCommands shows what the queue still holds for the game plugin.
func (h *OrdersHandler) PendingCommands(c echo.Context) error {
	commands, err := h.orderService.PendingCommands(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, commands)
}

// Dashboard returns the aggregated stats snapshot. start/end only affect
// the top-donator ranking.
func (h *OrdersHandler) Dashboard(c echo.Context) error {
	window, err := parseWindow(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start/end must be YYYY-MM-DD")
	}

	stats, err := h.dashboardService.Stats(c.Request().Context(), window)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
