// Package apperr holds the error kinds shared by services and their mapping
// to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrVersionLocked = errors.New("version is locked")
)

// ValidationError is returned for request bodies or parameters that cannot be
// stored.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Invalid wraps err as a ValidationError, passing nil through.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Msg: err.Error()}
}

// NotFound returns an error matching ErrNotFound, e.g. "odontograma not found".
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Locked returns an error matching ErrVersionLocked for versionID.
func Locked(versionID int) error {
	return fmt.Errorf("version %d: %w", versionID, ErrVersionLocked)
}

// HTTPError maps err to an echo.HTTPError. Postgres data exceptions (SQLSTATE
// class 22, e.g. a value too long for its column) are the client's fault and
// become a 400. Unknown errors become a 500 whose message hides the cause; the
// cause is kept as Internal for logging.
func HTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var (
		ve    *ValidationError
		pgErr *pgconn.PgError
	)
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Msg)
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "22"):
		return echo.NewHTTPError(http.StatusBadRequest, pgErr.Message).SetInternal(err)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrVersionLocked):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
