package requerimiento

import (
	"context"
	"strings"

	"github.com/odontograma/odontograma/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the form with its options grouped by function and the creation
// date formatted as dd/mm/yyyy.
func (s *Service) Get(ctx context.Context, correlativo string, nroCuenta int) (*Requerimiento, error) {
	correlativo = strings.TrimSpace(correlativo)
	if correlativo == "" {
		return nil, apperr.Validation("correlativo is required")
	}
	if err := apperr.MaxLen("correlativo", &correlativo, correlativoLen); err != nil {
		return nil, err
	}

	req, err := s.repo.Get(ctx, correlativo, nroCuenta)
	if err != nil {
		return nil, err
	}
	opciones, err := s.repo.ListOpciones(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	req.Funciones = map[string][]string{}
	for _, o := range opciones {
		if o.Funcion == "" {
			continue
		}
		var v string
		if o.Opcion != nil {
			v = *o.Opcion
		}
		req.Funciones[o.Funcion] = append(req.Funciones[o.Funcion], v)
	}
	req.TotalFunciones = len(req.Funciones)
	if !req.FechaCreacion.IsZero() {
		req.FechaFormato = req.FechaCreacion.Local().Format("02/01/2006")
	}
	return req, nil
}
