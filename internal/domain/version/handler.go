package version

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/auth"
	"github.com/odontograma/odontograma/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.ReadRoles...))
	readGroup.GET("/odontograma/:id/versions", h.List)
	readGroup.GET("/version/:versionId/full", h.GetFull)
	readGroup.GET("/version/:versionId/snapshot", h.GetSnapshot)
	readGroup.GET("/version/:versionId/raices", h.ListRaices)

	writeGroup := api.Group("", auth.RequireRole(auth.WriteRoles...))
	writeGroup.POST("/odontograma/:id/version", h.Create)
	writeGroup.POST("/version/:versionId/lock", h.Lock)
	writeGroup.POST("/version/:versionId/snapshot", h.SaveSnapshot)
	writeGroup.POST("/version/:versionId/raiz", h.UpsertRaiz)
	writeGroup.DELETE("/version/:versionId/raiz/:id", h.DeleteRaiz)
}

func (h *Handler) Create(c echo.Context) error {
	odontogramID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.Usuario = httpx.Actor(ctx, req.Usuario)
	v, err := h.svc.Create(ctx, odontogramID, &req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": v.ID, "versionNumber": v.VersionNumber})
}

func (h *Handler) List(c echo.Context) error {
	odontogramID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.List(c.Request().Context(), odontogramID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Version{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Lock(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	var req LockRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.svc.Lock(ctx, versionID, httpx.Actor(ctx, req.Usuario)); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}

func (h *Handler) GetFull(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	full, err := h.svc.Full(c.Request().Context(), versionID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, full)
}

// -- Snapshot --

func (h *Handler) SaveSnapshot(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	var req SnapshotRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.Usuario = httpx.Actor(ctx, req.Usuario)
	if err := h.svc.SaveSnapshot(ctx, versionID, &req); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"ok": true, "versionId": versionID})
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	view, err := h.svc.GetSnapshot(c.Request().Context(), versionID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// -- Roots --

func (h *Handler) UpsertRaiz(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	var rz Raiz
	if err := httpx.Bind(c, &rz); err != nil {
		return err
	}
	ctx := c.Request().Context()
	rz.VersionID = versionID
	rz.Usuario = httpx.Actor(ctx, rz.Usuario)
	if err := h.svc.UpsertRaiz(ctx, &rz); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": rz.ID})
}

func (h *Handler) ListRaices(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	list, err := h.svc.ListRaices(c.Request().Context(), versionID)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Raiz{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteRaiz(c echo.Context) error {
	versionID, err := httpx.ParamID(c, "versionId")
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.svc.DeleteRaiz(ctx, versionID, id, httpx.Actor(ctx, nil)); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}
