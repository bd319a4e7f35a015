package catalog

import (
	"context"
	"strings"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns a page of codes matching q, or of services when q is blank.
// A search page holds at most 50 matches per catalogue, a browse page at
// most 100 services.
func (s *Service) Search(ctx context.Context, q string, page pagination.Params) ([]*Codigo, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.repo.Browse(ctx, capLimit(page.Limit, browseLimit), page.Offset)
	}
	return s.repo.Search(ctx, q, capLimit(page.Limit, searchLimit), page.Offset)
}

func capLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

func (s *Service) Upsert(ctx context.Context, req *UpsertRequest) error {
	c := &Codigo{
		Codigo:       strings.TrimSpace(req.Codigo),
		Descripcion:  strings.TrimSpace(req.Descripcion),
		Categoria:    blankToNil(req.Categoria),
		ColorDefault: blankToNil(req.ColorDefault),
		Activo:       true,
	}
	if c.Codigo == "" || c.Descripcion == "" {
		return apperr.Validation("codigo and descripcion are required")
	}
	if err := apperr.First(
		apperr.MaxLen("codigo", &c.Codigo, 50),
		apperr.MaxLen("descripcion", &c.Descripcion, 500),
		apperr.MaxLen("categoria", c.Categoria, 100),
		apperr.MaxLen("colorDefault", c.ColorDefault, 20),
	); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, c)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
