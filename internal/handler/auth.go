package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/dto"
	"buildnchill-server/internal/middleware"
	"buildnchill-server/internal/service"
)

type AuthHandler struct {
	authService   service.AuthService
	walletService service.WalletService
}

func NewAuthHandler(authService service.AuthService, walletService service.WalletService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		walletService: walletService,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Me returns the caller's profile together with the wallet balance, the
// same shape the site header renders.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	profile, err := h.authService.Profile(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	balance, err := h.walletService.Balance(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:            profile.ID,
		Username:      profile.Username,
		Role:          profile.Role,
		WalletBalance: balance,
	})
}

func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req dto.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.authService.UpdatePassword(c.Request().Context(), middleware.UserID(c), req.NewPassword)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) AdminResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.authService.AdminResetPassword(c.Request().Context(), req.UserID, req.NewPassword)
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.authService.ListProfiles(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}
