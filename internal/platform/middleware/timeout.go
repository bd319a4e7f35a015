package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestTimeout sets a deadline on each request context. The handler runs on
// the request goroutine; repositories pass the context to pgx, so a slow
// query is cancelled at the deadline and its error becomes a 504. A zero
// timeout disables the middleware.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout:      timeout,
		ErrorHandler: timeoutError,
	})
}

func timeoutError(err error, c echo.Context) error {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return echo.NewHTTPError(http.StatusGatewayTimeout,
			"request processing exceeded the allowed time limit").SetInternal(err)
	}
	return err
}
