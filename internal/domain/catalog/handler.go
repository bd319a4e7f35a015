package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/auth"
	"github.com/odontograma/odontograma/internal/platform/httpx"
	"github.com/odontograma/odontograma/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.ReadRoles...))
	readGroup.GET("/codigos", h.Search)

	writeGroup := api.Group("", auth.RequireRole(auth.WriteRoles...))
	writeGroup.POST("/codigos", h.Upsert)
}

func (h *Handler) Search(c echo.Context) error {
	page := pagination.FromContextWith(c, browseLimit, browseLimit)
	list, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Codigo{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Upsert(c echo.Context) error {
	var req UpsertRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.Upsert(c.Request().Context(), &req); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}
