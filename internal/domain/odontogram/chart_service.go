package odontogram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/metrics"
	"github.com/odontograma/odontograma/pkg/fdi"
)

// Column widths of the base chart tables.
const (
	tipoVisitaLen    = 50
	areaLen          = 50
	estadoLen        = 100
	codigoLen        = 50
	descripcionLen   = 250
	observacionesLen = 500
	protesisTipoLen  = 50
	subTipoLen       = 100
	posicionLen      = 20
)

func (s *Service) MarkExtraction(ctx context.Context, d *Diente) error {
	if err := fdi.Check("numeroDiente", d.NumeroDiente); err != nil {
		return apperr.Invalid(err)
	}
	if err := apperr.MaxLen("usuario", d.Usuario, apperr.UsuarioLen); err != nil {
		return err
	}
	h, err := s.requireHistoria(ctx, d.OdontogramID, d.NroHistoria)
	if err != nil {
		return err
	}
	d.NroHistoria = h
	estado := EstadoExtraccion
	d.Estado = &estado
	if err := s.repo.MarkExtraction(ctx, d); err != nil {
		return err
	}
	metrics.RecordFinding("Diente", "UPSERT")
	s.record(ctx, d.OdontogramID, h, ActionMarkExtraccion, fmt.Sprintf("Diente=%d", d.NumeroDiente), d.Usuario)
	return nil
}

func (s *Service) UpsertArea(ctx context.Context, a *DienteArea) error {
	if err := fdi.Check("numeroDiente", a.NumeroDiente); err != nil {
		return apperr.Invalid(err)
	}
	a.Area = strings.TrimSpace(a.Area)
	if a.Area == "" {
		return apperr.Validation("area is required")
	}
	if err := apperr.First(
		apperr.MaxLen("area", &a.Area, areaLen),
		apperr.MaxLen("estado", a.Estado, estadoLen),
		apperr.MaxLen("color", a.Color, apperr.ColorLen),
		apperr.MaxLen("observaciones", a.Observaciones, observacionesLen),
		apperr.MaxLen("usuario", a.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	h, err := s.requireHistoria(ctx, a.OdontogramID, a.NroHistoria)
	if err != nil {
		return err
	}
	a.NroHistoria = h
	if err := s.repo.UpsertArea(ctx, a); err != nil {
		return err
	}
	metrics.RecordFinding("DienteArea", "UPSERT")
	s.record(ctx, a.OdontogramID, h, ActionUpsertDienteArea,
		fmt.Sprintf("Diente=%d;Area=%s;Estado=%s", a.NumeroDiente, a.Area, deref(a.Estado)), a.Usuario)
	return nil
}

func (s *Service) AddCodigo(ctx context.Context, c *DienteCodigo) error {
	if err := fdi.Check("numeroDiente", c.NumeroDiente); err != nil {
		return apperr.Invalid(err)
	}
	c.Codigo = strings.TrimSpace(c.Codigo)
	if c.Codigo == "" {
		return apperr.Validation("codigo is required")
	}
	if err := apperr.First(
		apperr.MaxLen("codigo", &c.Codigo, codigoLen),
		apperr.MaxLen("descripcion", c.Descripcion, descripcionLen),
		apperr.MaxLen("color", c.Color, apperr.ColorLen),
		apperr.MaxLen("usuario", c.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	h, err := s.requireHistoria(ctx, c.OdontogramID, c.NroHistoria)
	if err != nil {
		return err
	}
	c.NroHistoria = h
	if err := s.repo.AddCodigo(ctx, c); err != nil {
		return err
	}
	metrics.RecordFinding("DienteCodigo", "INSERT")
	s.record(ctx, c.OdontogramID, h, ActionAddCodigo,
		fmt.Sprintf("Diente=%d;Codigo=%s", c.NumeroDiente, c.Codigo), c.Usuario)
	return nil
}

func (s *Service) CreateTransposicion(ctx context.Context, t *Transposicion) error {
	if err := fdi.Check("diente_from", t.DienteFrom); err != nil {
		return apperr.Invalid(err)
	}
	if err := fdi.Check("diente_to", t.DienteTo); err != nil {
		return apperr.Invalid(err)
	}
	if err := apperr.First(
		apperr.MaxLen("color", t.Color, apperr.ColorLen),
		apperr.MaxLen("observaciones", t.Observaciones, observacionesLen),
		apperr.MaxLen("usuario", t.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	h, err := s.requireHistoria(ctx, t.OdontogramID, t.NroHistoria)
	if err != nil {
		return err
	}
	t.NroHistoria = h
	if err := s.repo.CreateTransposicion(ctx, t); err != nil {
		return err
	}
	metrics.RecordFinding("Transposicion", "INSERT")
	s.record(ctx, t.OdontogramID, h, ActionInsertTransposicion,
		fmt.Sprintf("From=%d;To=%d", t.DienteFrom, t.DienteTo), t.Usuario)
	return nil
}

func (s *Service) ListTransposiciones(ctx context.Context, odontogramID int) ([]*Transposicion, error) {
	return s.repo.ListTransposiciones(ctx, odontogramID)
}

func (s *Service) DeleteTransposicion(ctx context.Context, odontogramID, id int, usuario *string) error {
	if err := s.repo.DeleteTransposicion(ctx, odontogramID, id); err != nil {
		return err
	}
	metrics.RecordFinding("Transposicion", "DELETE")
	s.record(ctx, odontogramID, nil, ActionDeleteTransposicion, fmt.Sprintf("Id=%d", id), usuario)
	return nil
}

func (s *Service) CreateDiastema(ctx context.Context, d *Diastema) error {
	if err := fdi.Check("diente_left", d.DienteLeft); err != nil {
		return apperr.Invalid(err)
	}
	if err := fdi.Check("diente_right", d.DienteRight); err != nil {
		return apperr.Invalid(err)
	}
	if err := apperr.First(
		apperr.Numeric("tamano", d.Tamano, 6, 2),
		apperr.MaxLen("observaciones", d.Observaciones, observacionesLen),
		apperr.MaxLen("usuario", d.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	h, err := s.resolveHistoria(ctx, d.OdontogramID, d.NroHistoria)
	if err != nil {
		return err
	}
	d.NroHistoria = h
	if err := s.repo.CreateDiastema(ctx, d); err != nil {
		return err
	}
	metrics.RecordFinding("Diastema", "INSERT")
	tam := "null"
	if d.Tamano != nil {
		tam = strconv.FormatFloat(*d.Tamano, 'f', -1, 64)
	}
	s.record(ctx, d.OdontogramID, h, ActionInsertDiastema,
		fmt.Sprintf("L=%d;R=%d;Tam=%s", d.DienteLeft, d.DienteRight, tam), d.Usuario)
	return nil
}

func (s *Service) ListDiastemas(ctx context.Context, odontogramID int) ([]*Diastema, error) {
	return s.repo.ListDiastemas(ctx, odontogramID)
}

func (s *Service) DeleteDiastema(ctx context.Context, odontogramID, id int, usuario *string) error {
	if err := s.repo.DeleteDiastema(ctx, odontogramID, id); err != nil {
		return err
	}
	metrics.RecordFinding("Diastema", "DELETE")
	s.record(ctx, odontogramID, nil, ActionDeleteDiastema, fmt.Sprintf("Id=%d", id), usuario)
	return nil
}

func (s *Service) CreateProtesis(ctx context.Context, p *Protesis) error {
	p.Tipo = strings.TrimSpace(p.Tipo)
	if p.Tipo == "" {
		return apperr.Validation("tipo is required")
	}
	if err := apperr.First(
		apperr.MaxLen("tipo", &p.Tipo, protesisTipoLen),
		apperr.MaxLen("subTipo", p.SubTipo, subTipoLen),
		apperr.MaxLen("posicion", p.Posicion, posicionLen),
		apperr.MaxLen("color", p.Color, apperr.ColorLen),
		apperr.MaxLen("observaciones", p.Observaciones, observacionesLen),
		apperr.MaxLen("usuario", p.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	for _, n := range p.Dientes {
		if err := fdi.Check("dientes", n); err != nil {
			return apperr.Invalid(err)
		}
	}
	h, err := s.resolveHistoria(ctx, p.OdontogramID, p.NroHistoria)
	if err != nil {
		return err
	}
	p.NroHistoria = h
	if p.Dientes == nil {
		p.Dientes = []int{}
	}
	if err := s.repo.CreateProtesis(ctx, p); err != nil {
		return err
	}
	metrics.RecordFinding("Protesis", "INSERT")
	s.record(ctx, p.OdontogramID, h, ActionInsertProtesis,
		fmt.Sprintf("Tipo=%s;Dientes=%s", p.Tipo, joinInts(p.Dientes)), p.Usuario)
	return nil
}

func (s *Service) DeleteProtesis(ctx context.Context, odontogramID, id int, usuario *string) error {
	if err := s.repo.DeleteProtesis(ctx, odontogramID, id); err != nil {
		return err
	}
	metrics.RecordFinding("Protesis", "DELETE")
	s.record(ctx, odontogramID, nil, ActionDeleteProtesis, fmt.Sprintf("Id=%d", id), usuario)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
