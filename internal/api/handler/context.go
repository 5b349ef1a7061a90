package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/accounts-api/internal/api/middleware"
	"github.com/storefront/accounts-api/internal/core/domain"
)

// principalFrom extracts the caller injected by the Authenticate middleware.
// A missing principal means the route was mounted without authentication.
func principalFrom(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.Identity == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
