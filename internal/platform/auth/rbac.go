package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin     = "admin"
	RoleDentist   = "dentist"
	RoleAssistant = "assistant"
	RoleViewer    = "viewer"
)

var (
	// ReadRoles may view charts, versions and catalogues.
	ReadRoles = []string{RoleDentist, RoleAssistant, RoleViewer}
	// WriteRoles may record findings and save snapshots.
	WriteRoles = []string{RoleDentist, RoleAssistant}
)

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. Admin passes every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, has := range userRoles {
				if has == RoleAdmin {
					return next(c)
				}
				for _, required := range roles {
					if has == required {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
