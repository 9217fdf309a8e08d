package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole allows the request through when the authenticated user holds
// one of the given roles. Admins pass every staff gate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c.Request().Context())
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}
			for _, required := range roles {
				if claims.Role == required {
					return next(c)
				}
				if claims.Role == RoleAdmin && required != RolePatient {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
