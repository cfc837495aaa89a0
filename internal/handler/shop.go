package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/middleware"
	"buildnchill-server/internal/service"
)

type ShopHandler struct {
	catalogService   service.CatalogService
	orderService     service.OrderService
	dashboardService service.DashboardService
}

func NewShopHandler(catalogService service.CatalogService, orderService service.OrderService, dashboardService service.DashboardService) *ShopHandler {
	return &ShopHandler{
		catalogService:   catalogService,
		orderService:     orderService,
		dashboardService: dashboardService,
	}
}

func (h *ShopHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context(), false)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *ShopHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context(), false)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, products)
}

// CreateOrder is the "Đã Thanh Toán" button: the order is only recorded
// once the buyer confirms they transferred the money.
func (h *ShopHandler) CreateOrder(c echo.Context) error {
	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.Create(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// PurchaseWithWallet lets a signed-in player pay straight from their
// balance; the order comes back already paid.
func (h *ShopHandler) PurchaseWithWallet(c echo.Context) error {
	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orderService.PurchaseWithWallet(c.Request().Context(), middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// TopDonators backs the shop-page leaderboard. start/end are YYYY-MM-DD
// and optional.
func (h *ShopHandler) TopDonators(c echo.Context) error {
	window, err := parseWindow(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start/end must be YYYY-MM-DD")
	}

	ranked, err := h.dashboardService.TopDonators(c.Request().Context(), window, 5)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ranked)
}

func parseWindow(start, end string) (service.DateRange, error) {
	var window service.DateRange
	if start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return window, err
		}
		window.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return window, err
		}
		window.End = t
	}
	return window, nil
}
