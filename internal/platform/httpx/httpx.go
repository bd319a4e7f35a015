// Package httpx holds request helpers shared by the domain handlers.
package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/odontograma/odontograma/internal/platform/auth"
)

// ParamID parses a positive integer path parameter. Zero, negative and
// non-numeric values are rejected with 400.
func ParamID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// Bind decodes the request body, reporting malformed JSON as 400.
func Bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}

// Actor returns usuario when the request supplied one, otherwise the
// authenticated user's name. Nil when neither is known.
func Actor(ctx context.Context, usuario *string) *string {
	if usuario != nil && strings.TrimSpace(*usuario) != "" {
		return usuario
	}
	if name := auth.UserNameFromContext(ctx); name != "" {
		return &name
	}
	return nil
}

// OK is the body returned by writes that have nothing else to report.
var OK = map[string]bool{"ok": true}
