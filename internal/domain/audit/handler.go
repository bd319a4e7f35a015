package audit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/auth"
	"github.com/odontograma/odontograma/internal/platform/httpx"
)

type Handler struct {
	rec *Recorder
}

func NewHandler(rec *Recorder) *Handler {
	return &Handler{rec: rec}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.ReadRoles...))
	readGroup.GET("/odontograma/:id/audit", h.ListOdontogramAudit)
	readGroup.GET("/version/:versionId/audit", h.ListVersionAudit)
}

func (h *Handler) ListOdontogramAudit(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.rec.ListByOdontogram(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) ListVersionAudit(c echo.Context) error {
	id, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	entries, err := h.rec.ListByVersion(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if entries == nil {
		entries = []*VersionEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
