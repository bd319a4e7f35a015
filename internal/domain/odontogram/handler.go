package odontogram

import (
	"context"
	"net/http"
	"strconv"
	"strings"

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
	readGroup.GET("/odontogramas/:nroHistoria", h.ListByHistoria)
	readGroup.GET("/odontograma/:id/full", h.GetFull)
	readGroup.GET("/odontograma/:id/transposiciones", h.ListTransposiciones)
	readGroup.GET("/odontograma/:id/diastemas", h.ListDiastemas)
	readGroup.GET("/odontograma/historico/:nroHistoria", h.Historico)
	readGroup.GET("/odontograma/historico/:nroHistoria/:correlativo", h.HistoricoDetail)
	readGroup.GET("/historia/:nroHistoria/existe", h.Existe)
	readGroup.GET("/historia/:nroHistoria/odontogramas", h.ListSummaries)

	writeGroup := api.Group("", auth.RequireRole(auth.WriteRoles...))
	writeGroup.POST("/odontograma", h.CreateOdontogram)
	writeGroup.POST("/odontograma/:id/observaciones", h.UpdateObservaciones)
	writeGroup.POST("/odontograma/:id/diente/extraccion", h.MarkExtraction)
	writeGroup.POST("/odontograma/:id/diente/area", h.UpsertArea)
	writeGroup.POST("/odontograma/:id/diente/codigo", h.AddCodigo)
	writeGroup.POST("/odontograma/:id/transposicion", h.CreateTransposicion)
	writeGroup.DELETE("/odontograma/:id/transposicion/:transId", h.DeleteTransposicion)
	writeGroup.POST("/odontograma/:id/diastema", h.CreateDiastema)
	writeGroup.DELETE("/odontograma/:id/diastema/:diastemaId", h.DeleteDiastema)
	writeGroup.POST("/odontograma/:id/protesis", h.CreateProtesis)
	writeGroup.DELETE("/odontograma/:id/protesis/:protesisId", h.DeleteProtesis)
}

// -- Odontogram --

func (h *Handler) CreateOdontogram(c echo.Context) error {
	var req CreateRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.Usuario = httpx.Actor(ctx, req.Usuario)
	o, versionID, err := h.svc.CreateOdontogram(ctx, &req)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": o.ID, "versionId": versionID})
}

func (h *Handler) ListByHistoria(c echo.Context) error {
	list, err := h.svc.ListByHistoria(c.Request().Context(), strings.TrimSpace(c.Param("nroHistoria")))
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Odontogram{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetFull(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	full, err := h.svc.Full(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, full)
}

func (h *Handler) UpdateObservaciones(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req ObservacionesRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.Usuario = httpx.Actor(ctx, req.Usuario)
	if err := h.svc.UpdateObservaciones(ctx, id, &req); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}

func (h *Handler) Historico(c echo.Context) error {
	rows, err := h.svc.Historico(c.Request().Context(), strings.TrimSpace(c.Param("nroHistoria")))
	if err != nil {
		return apperr.HTTPError(err)
	}
	if rows == nil {
		rows = []*HistoricoRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// HistoricoDetail accepts the correlativo with or without its zero padding.
func (h *Handler) HistoricoDetail(c echo.Context) error {
	nroHistoria := strings.TrimSpace(c.Param("nroHistoria"))
	id, err := strconv.Atoi(c.Param("correlativo"))
	if nroHistoria == "" || err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid nroHistoria or correlativo")
	}
	full, err := h.svc.HistoricoDetail(c.Request().Context(), nroHistoria, id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, full)
}

func (h *Handler) Existe(c echo.Context) error {
	res, err := h.svc.Existe(c.Request().Context(), c.Param("nroHistoria"))
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListSummaries(c echo.Context) error {
	list, err := h.svc.ListSummaries(c.Request().Context(), c.Param("nroHistoria"))
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Summary{}
	}
	return c.JSON(http.StatusOK, list)
}

// -- Base chart --

func (h *Handler) MarkExtraction(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var d Diente
	if err := httpx.Bind(c, &d); err != nil {
		return err
	}
	ctx := c.Request().Context()
	d.OdontogramID = id
	d.Usuario = httpx.Actor(ctx, d.Usuario)
	if err := h.svc.MarkExtraction(ctx, &d); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}

func (h *Handler) UpsertArea(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var a DienteArea
	if err := httpx.Bind(c, &a); err != nil {
		return err
	}
	ctx := c.Request().Context()
	a.OdontogramID = id
	a.Usuario = httpx.Actor(ctx, a.Usuario)
	if err := h.svc.UpsertArea(ctx, &a); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}

func (h *Handler) AddCodigo(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var dc DienteCodigo
	if err := httpx.Bind(c, &dc); err != nil {
		return err
	}
	ctx := c.Request().Context()
	dc.OdontogramID = id
	dc.Usuario = httpx.Actor(ctx, dc.Usuario)
	if err := h.svc.AddCodigo(ctx, &dc); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": dc.ID})
}

func (h *Handler) CreateTransposicion(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var t Transposicion
	if err := httpx.Bind(c, &t); err != nil {
		return err
	}
	ctx := c.Request().Context()
	t.OdontogramID = id
	t.Usuario = httpx.Actor(ctx, t.Usuario)
	if err := h.svc.CreateTransposicion(ctx, &t); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"ok": true, "id": t.ID})
}

func (h *Handler) ListTransposiciones(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.ListTransposiciones(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Transposicion{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteTransposicion(c echo.Context) error {
	return h.deleteScoped(c, "transId", h.svc.DeleteTransposicion)
}

func (h *Handler) CreateDiastema(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var d Diastema
	if err := httpx.Bind(c, &d); err != nil {
		return err
	}
	ctx := c.Request().Context()
	d.OdontogramID = id
	d.Usuario = httpx.Actor(ctx, d.Usuario)
	if err := h.svc.CreateDiastema(ctx, &d); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": d.ID})
}

func (h *Handler) ListDiastemas(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.ListDiastemas(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	if list == nil {
		list = []*Diastema{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteDiastema(c echo.Context) error {
	return h.deleteScoped(c, "diastemaId", h.svc.DeleteDiastema)
}

func (h *Handler) CreateProtesis(c echo.Context) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var p Protesis
	if err := httpx.Bind(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	p.OdontogramID = id
	p.Usuario = httpx.Actor(ctx, p.Usuario)
	if err := h.svc.CreateProtesis(ctx, &p); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int{"id": p.ID})
}

func (h *Handler) DeleteProtesis(c echo.Context) error {
	return h.deleteScoped(c, "protesisId", h.svc.DeleteProtesis)
}

type scopedDelete func(ctx context.Context, odontogramID, id int, usuario *string) error

func (h *Handler) deleteScoped(c echo.Context, param string, del scopedDelete) error {
	odontogramID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, param)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := del(ctx, odontogramID, id, httpx.Actor(ctx, nil)); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, httpx.OK)
}
