package odontogram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/metrics"
)

// Auditor records odontogram audit rows. *audit.Recorder implements it.
type Auditor interface {
	Record(ctx context.Context, e *audit.Entry)
	ListByOdontogram(ctx context.Context, odontogramID int) ([]*audit.Entry, error)
}

type Service struct {
	repo  Repository
	audit Auditor
}

func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{repo: repo, audit: auditor}
}

// Audit actions written by the base chart.
const (
	ActionMarkExtraccion      = "MARK_EXTRACCION"
	ActionUpsertDienteArea    = "UPSERT_DIENTE_AREA"
	ActionAddCodigo           = "ADD_CODIGO"
	ActionInsertTransposicion = "INSERT_TRANSPOSICION"
	ActionInsertDiastema      = "INSERT_DIASTEMA"
	ActionInsertProtesis      = "INSERT_PROTESIS"
	ActionUpdateObservaciones = "UPDATE_OBSERVACIONES"
	ActionDeleteTransposicion = "DELETE_TRANSPOSICION"
	ActionDeleteDiastema      = "DELETE_DIASTEMA"
	ActionDeleteProtesis      = "DELETE_PROTESIS"
)

var fechaLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseFecha(s string) (*time.Time, error) {
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("fechaVisita %q is not a valid date", s)
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// CreateOdontogram stores a new header with version 1 and returns the id of
// that version. The clinical record number falls back to nroCuenta.
func (s *Service) CreateOdontogram(ctx context.Context, req *CreateRequest) (*Odontogram, int, error) {
	o := &Odontogram{
		TipoVisita:      req.TipoVisita,
		Observaciones:   req.Observaciones,
		UsuarioCreacion: req.Usuario,
		Metadata:        req.Metadata,
	}
	switch {
	case nonEmpty(req.NroHistoria):
		h := strings.TrimSpace(*req.NroHistoria)
		o.NroHistoria = &h
	case !req.NroCuenta.Empty():
		h := strings.TrimSpace(req.NroCuenta.String)
		o.NroHistoria = &h
	default:
		return nil, 0, apperr.Validation("nroHistoria is required")
	}
	if err := apperr.First(
		apperr.MaxLen("nroHistoria", o.NroHistoria, apperr.NroHistoriaLen),
		apperr.MaxLen("tipoVisita", o.TipoVisita, tipoVisitaLen),
		apperr.MaxLen("usuario", o.UsuarioCreacion, apperr.UsuarioLen),
	); err != nil {
		return nil, 0, err
	}
	if nonEmpty(req.FechaVisita) {
		f, err := parseFecha(*req.FechaVisita)
		if err != nil {
			return nil, 0, err
		}
		o.FechaVisita = f
	}

	versionID, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, 0, err
	}
	metrics.VersionsCreatedTotal.Inc()
	return o, versionID, nil
}

func (s *Service) GetOdontogram(ctx context.Context, id int) (*Odontogram, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByHistoria(ctx context.Context, nroHistoria string) ([]*Odontogram, error) {
	return s.repo.ListByHistoria(ctx, nroHistoria)
}

func (s *Service) ListSummaries(ctx context.Context, nroHistoria string) ([]*Summary, error) {
	nroHistoria = strings.TrimSpace(nroHistoria)
	if nroHistoria == "" {
		return nil, apperr.Validation("nroHistoria is required")
	}
	return s.repo.ListSummaries(ctx, nroHistoria)
}

// Full assembles the header, its base chart and its audit trail.
func (s *Service) Full(ctx context.Context, id int) (*Full, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	chart, err := s.repo.LoadChart(ctx, id)
	if err != nil {
		return nil, err
	}
	chart.normalize()
	entries, err := s.audit.ListByOdontogram(ctx, id)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*audit.Entry{}
	}
	return &Full{Odontogram: o, Chart: *chart, Audit: entries}, nil
}

func (s *Service) Historico(ctx context.Context, nroHistoria string) ([]*HistoricoRow, error) {
	return s.repo.Historico(ctx, nroHistoria)
}

// HistoricoDetail returns the full view of the odontogram cited by
// correlativo, provided it belongs to nroHistoria.
func (s *Service) HistoricoDetail(ctx context.Context, nroHistoria string, id int) (*Full, error) {
	full, err := s.Full(ctx, id)
	if err != nil {
		return nil, err
	}
	if full.NroHistoria == nil || *full.NroHistoria != nroHistoria {
		return nil, apperr.NotFound("odontograma for the given record")
	}
	versions, err := s.repo.ListVersionRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []*VersionRef{}
	}
	full.Versiones = versions
	full.Correlativo = Correlativo(id)
	return full, nil
}

// Existe reports whether the clinical record exists and, when it does, its
// odontograms and the latest version of the newest one.
func (s *Service) Existe(ctx context.Context, nroHistoria string) (*ExisteResult, error) {
	nroHistoria = strings.TrimSpace(nroHistoria)
	if nroHistoria == "" {
		return nil, apperr.Validation("nroHistoria is required")
	}
	p, err := s.repo.FindPaciente(ctx, nroHistoria)
	if err != nil {
		return nil, err
	}
	res := &ExisteResult{Source: RecordSource}
	if p == nil {
		return res, nil
	}
	res.Exists = true
	res.Paciente = p

	list, err := s.repo.ListSummaries(ctx, nroHistoria)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Summary{}
	}
	res.Odontogramas = list
	res.OdontogramasCount = len(list)
	if len(list) > 0 {
		latest := list[0].ID
		res.LatestOdontogramaID = &latest
		if res.LatestVersionID, err = s.repo.LatestVersionID(ctx, latest); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Service) UpdateObservaciones(ctx context.Context, id int, req *ObservacionesRequest) error {
	if err := apperr.MaxLen("usuario", req.Usuario, apperr.UsuarioLen); err != nil {
		return err
	}
	obs := req.Observaciones
	if obs != nil && *obs == "" {
		obs = nil
	}
	if err := s.repo.UpdateObservaciones(ctx, id, obs, req.Usuario); err != nil {
		return err
	}
	detail := "NULL"
	if obs != nil {
		detail = fmt.Sprintf("Len=%d", len([]rune(*obs)))
	}
	s.audit.Record(ctx, &audit.Entry{
		OdontogramID: &id,
		Action:       ActionUpdateObservaciones,
		Detail:       &detail,
		User:         req.Usuario,
	})
	return nil
}

// resolveHistoria returns the record number sent with a base write or, when
// absent, the one on the header. The header must exist.
func (s *Service) resolveHistoria(ctx context.Context, odontogramID int, given *string) (*string, error) {
	o, err := s.repo.GetByID(ctx, odontogramID)
	if err != nil {
		return nil, err
	}
	if nonEmpty(given) {
		h := strings.TrimSpace(*given)
		if err := apperr.MaxLen("nroHistoria", &h, apperr.NroHistoriaLen); err != nil {
			return nil, err
		}
		return &h, nil
	}
	if nonEmpty(o.NroHistoria) {
		return o.NroHistoria, nil
	}
	return nil, nil
}

func (s *Service) requireHistoria(ctx context.Context, odontogramID int, given *string) (*string, error) {
	h, err := s.resolveHistoria(ctx, odontogramID, given)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, apperr.Validation("nroHistoria is required: not sent and not found on the odontograma")
	}
	return h, nil
}

func (s *Service) record(ctx context.Context, odontogramID int, historia *string, action, detail string, usuario *string) {
	s.audit.Record(ctx, &audit.Entry{
		OdontogramID: &odontogramID,
		NroHistoria:  historia,
		Action:       action,
		Detail:       audit.Ptr(detail),
		User:         usuario,
	})
}
