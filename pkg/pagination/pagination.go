// Package pagination reads limit/offset query parameters for list endpoints.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContextWith extracts ?limit= and ?offset=, falling back to defaultLimit
// for a missing or non-positive limit and clamping it to maxLimit.
func FromContextWith(c echo.Context, defaultLimit, maxLimit int) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}
