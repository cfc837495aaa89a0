package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"buildnchill-server/internal/service"
)

// httpError maps service errors onto status codes so handlers can stay
// one-liners. Unknown errors bubble up as 500 through echo.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrAlreadyProcessed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInsufficientBalance):
		return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidUserName),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrZeroAmount),
		errors.Is(err, service.ErrInvalidNote),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingContactFields),
		errors.Is(err, service.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
