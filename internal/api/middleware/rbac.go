package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/accounts-api/internal/api/metrics"
	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/security"
)

// RequireRole admits callers holding at least one of allowed. It must run
// after Authenticate; a request without a principal is unauthenticated, and
// an authenticated principal lacking the role is forbidden.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	label := strings.Join(domain.RoleNames(allowed), "|")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !security.AuthorizeAny(principal.Roles, allowed...) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "deny").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "allow").Inc()
			return next(c)
		}
	}
}
