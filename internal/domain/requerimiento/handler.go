package requerimiento

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.ReadRoles...))
	readGroup.GET("/requerimiento/correlativo/:correlativo/:nroCuenta", h.GetByCorrelativo)
}

func (h *Handler) GetByCorrelativo(c echo.Context) error {
	nroCuenta, err := strconv.Atoi(c.Param("nroCuenta"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nroCuenta must be a number")
	}
	req, err := h.svc.Get(c.Request().Context(), c.Param("correlativo"), nroCuenta)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, req)
}
