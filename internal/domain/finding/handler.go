package finding

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

// RegisterRoutes mounts create, list and delete for every finding kind
// under /version/:versionId.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.ReadRoles...))
	writeGroup := api.Group("", auth.RequireRole(auth.WriteRoles...))

	for _, k := range kinds {
		base := "/version/:versionId/" + k.Path()
		readGroup.GET(base, h.List(k))
		writeGroup.POST(base, h.Create(k))
		writeGroup.DELETE(base+"/:id", h.Delete(k))
	}
}

func (h *Handler) Create(k Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		versionID, err := httpx.ParamID(c, "versionId")
		if err != nil {
			return err
		}
		f := k.New()
		if err := httpx.Bind(c, f); err != nil {
			return err
		}
		ctx := c.Request().Context()
		b := f.base()
		b.Usuario = httpx.Actor(ctx, b.Usuario)
		if err := h.svc.Create(ctx, k, versionID, f); err != nil {
			return apperr.HTTPError(err)
		}
		return c.JSON(http.StatusCreated, map[string]int{"id": b.ID})
	}
}

func (h *Handler) List(k Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		versionID, err := httpx.ParamID(c, "versionId")
		if err != nil {
			return err
		}
		list, err := h.svc.List(c.Request().Context(), k, versionID)
		if err != nil {
			return apperr.HTTPError(err)
		}
		if list == nil {
			list = []Finding{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *Handler) Delete(k Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		versionID, err := httpx.ParamID(c, "versionId")
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		if err := h.svc.Delete(ctx, k, versionID, id, httpx.Actor(ctx, nil)); err != nil {
			return apperr.HTTPError(err)
		}
		return c.JSON(http.StatusOK, httpx.OK)
	}
}
