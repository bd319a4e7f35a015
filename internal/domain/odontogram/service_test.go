package odontogram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

// -- Mock Repository --

type mockRepo struct {
	odontograms map[int]*Odontogram
	versions    map[int][]*VersionRef
	pacientes   map[string]*Paciente
	dientes     map[[2]int]*Diente
	areas       map[string]*DienteArea
	codigos     []*DienteCodigo
	trans       map[int]*Transposicion
	diastemas   map[int]*Diastema
	protesis    map[int]*Protesis
	nextID      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		odontograms: make(map[int]*Odontogram),
		versions:    make(map[int][]*VersionRef),
		pacientes:   make(map[string]*Paciente),
		dientes:     make(map[[2]int]*Diente),
		areas:       make(map[string]*DienteArea),
		trans:       make(map[int]*Transposicion),
		diastemas:   make(map[int]*Diastema),
		protesis:    make(map[int]*Protesis),
	}
}

func (m *mockRepo) id() int {
	m.nextID++
	return m.nextID
}

func (m *mockRepo) Create(_ context.Context, o *Odontogram) (int, error) {
	o.ID = m.id()
	o.Version = 1
	o.Activo = true
	o.FechaCreacion = time.Now().Add(time.Duration(o.ID) * time.Second)
	m.odontograms[o.ID] = o
	v := &VersionRef{ID: m.id(), VersionNumber: 1, FechaCreacion: o.FechaCreacion}
	m.versions[o.ID] = []*VersionRef{v}
	return v.ID, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int) (*Odontogram, error) {
	o, ok := m.odontograms[id]
	if !ok {
		return nil, apperr.NotFound("odontograma")
	}
	return o, nil
}

func (m *mockRepo) byHistoria(nro string) []*Odontogram {
	var out []*Odontogram
	for _, o := range m.odontograms {
		if o.NroHistoria != nil && *o.NroHistoria == nro {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockRepo) ListByHistoria(_ context.Context, nro string) ([]*Odontogram, error) {
	return m.byHistoria(nro), nil
}

func (m *mockRepo) ListSummaries(_ context.Context, nro string) ([]*Summary, error) {
	var out []*Summary
	for _, o := range m.byHistoria(nro) {
		out = append(out, &Summary{ID: o.ID, NroHistoria: o.NroHistoria, Activo: o.Activo, FechaCreacion: o.FechaCreacion})
	}
	return out, nil
}

func (m *mockRepo) Historico(_ context.Context, nro string) ([]*HistoricoRow, error) {
	var out []*HistoricoRow
	for _, o := range m.byHistoria(nro) {
		out = append(out, &HistoricoRow{
			ID:          o.ID,
			NroHistoria: o.NroHistoria,
			Versiones:   len(m.versions[o.ID]),
			Correlativo: Correlativo(o.ID),
		})
	}
	return out, nil
}

func (m *mockRepo) ListVersionRefs(_ context.Context, odontogramID int) ([]*VersionRef, error) {
	return m.versions[odontogramID], nil
}

func (m *mockRepo) LatestVersionID(_ context.Context, odontogramID int) (*int, error) {
	vs := m.versions[odontogramID]
	if len(vs) == 0 {
		return nil, nil
	}
	id := vs[len(vs)-1].ID
	return &id, nil
}

func (m *mockRepo) UpdateObservaciones(_ context.Context, id int, obs, usuario *string) error {
	o, ok := m.odontograms[id]
	if !ok {
		return apperr.NotFound("odontograma")
	}
	o.Observaciones = obs
	o.UsuarioModificacion = usuario
	return nil
}

func (m *mockRepo) FindPaciente(_ context.Context, nro string) (*Paciente, error) {
	return m.pacientes[nro], nil
}

func (m *mockRepo) MarkExtraction(_ context.Context, d *Diente) error {
	key := [2]int{d.OdontogramID, d.NumeroDiente}
	if existing, ok := m.dientes[key]; ok {
		existing.Estado = d.Estado
		d.ID = existing.ID
		return nil
	}
	d.ID = m.id()
	m.dientes[key] = d
	return nil
}

func (m *mockRepo) UpsertArea(_ context.Context, a *DienteArea) error {
	key := fmt.Sprintf("%d/%d/%s", a.OdontogramID, a.NumeroDiente, a.Area)
	if existing, ok := m.areas[key]; ok {
		existing.Estado = a.Estado
		existing.Color = a.Color
		a.ID = existing.ID
		return nil
	}
	a.ID = m.id()
	m.areas[key] = a
	return nil
}

func (m *mockRepo) AddCodigo(_ context.Context, c *DienteCodigo) error {
	c.ID = m.id()
	m.codigos = append(m.codigos, c)
	return nil
}

func (m *mockRepo) CreateTransposicion(_ context.Context, t *Transposicion) error {
	t.ID = m.id()
	m.trans[t.ID] = t
	return nil
}

func (m *mockRepo) ListTransposiciones(_ context.Context, odontogramID int) ([]*Transposicion, error) {
	var out []*Transposicion
	for _, t := range m.trans {
		if t.OdontogramID == odontogramID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockRepo) DeleteTransposicion(_ context.Context, odontogramID, id int) error {
	t, ok := m.trans[id]
	if !ok || t.OdontogramID != odontogramID {
		return apperr.NotFound("transposicion")
	}
	delete(m.trans, id)
	return nil
}

func (m *mockRepo) CreateDiastema(_ context.Context, d *Diastema) error {
	d.ID = m.id()
	m.diastemas[d.ID] = d
	return nil
}

func (m *mockRepo) ListDiastemas(_ context.Context, odontogramID int) ([]*Diastema, error) {
	var out []*Diastema
	for _, d := range m.diastemas {
		if d.OdontogramID == odontogramID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockRepo) DeleteDiastema(_ context.Context, odontogramID, id int) error {
	d, ok := m.diastemas[id]
	if !ok || d.OdontogramID != odontogramID {
		return apperr.NotFound("diastema")
	}
	delete(m.diastemas, id)
	return nil
}

func (m *mockRepo) CreateProtesis(_ context.Context, p *Protesis) error {
	p.ID = m.id()
	m.protesis[p.ID] = p
	return nil
}

func (m *mockRepo) DeleteProtesis(_ context.Context, odontogramID, id int) error {
	p, ok := m.protesis[id]
	if !ok || p.OdontogramID != odontogramID {
		return apperr.NotFound("protesis")
	}
	delete(m.protesis, id)
	return nil
}

func (m *mockRepo) LoadChart(_ context.Context, odontogramID int) (*Chart, error) {
	chart := &Chart{}
	for _, d := range m.dientes {
		if d.OdontogramID == odontogramID {
			chart.Dientes = append(chart.Dientes, d)
		}
	}
	for _, p := range m.protesis {
		if p.OdontogramID == odontogramID {
			chart.Protesis = append(chart.Protesis, p)
		}
	}
	chart.Transposiciones, _ = m.ListTransposiciones(context.Background(), odontogramID)
	chart.Diastemas, _ = m.ListDiastemas(context.Background(), odontogramID)
	return chart, nil
}

// -- Fake Auditor --

type fakeAuditor struct {
	entries []*audit.Entry
}

func (f *fakeAuditor) Record(_ context.Context, e *audit.Entry) {
	f.entries = append(f.entries, e)
}

func (f *fakeAuditor) ListByOdontogram(_ context.Context, odontogramID int) ([]*audit.Entry, error) {
	var out []*audit.Entry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if e := f.entries[i]; e.OdontogramID != nil && *e.OdontogramID == odontogramID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditor) last() *audit.Entry {
	if len(f.entries) == 0 {
		return nil
	}
	return f.entries[len(f.entries)-1]
}

func newTestService() (*Service, *mockRepo, *fakeAuditor) {
	repo := newMockRepo()
	aud := &fakeAuditor{}
	return NewService(repo, aud), repo, aud
}

func strPtr(s string) *string { return &s }

func createTestOdontogram(t *testing.T, svc *Service, nro string) *Odontogram {
	t.Helper()
	o, _, err := svc.CreateOdontogram(context.Background(), &CreateRequest{NroHistoria: strPtr(nro)})
	if err != nil {
		t.Fatalf("create odontograma: %v", err)
	}
	return o
}

func isValidation(err error) bool {
	var ve *apperr.ValidationError
	return errors.As(err, &ve)
}

// -- Odontogram --

func TestCreateOdontogram(t *testing.T) {
	svc, repo, _ := newTestService()

	o, versionID, err := svc.CreateOdontogram(context.Background(), &CreateRequest{
		NroHistoria: strPtr(" HC-001 "),
		FechaVisita: strPtr("2024-05-14"),
		TipoVisita:  strPtr("control"),
		Metadata:    jsontext.From(`{"origen":"ui"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID == 0 || versionID == 0 {
		t.Fatalf("expected ids to be assigned, got id=%d version=%d", o.ID, versionID)
	}
	if *o.NroHistoria != "HC-001" {
		t.Errorf("expected trimmed nroHistoria, got %q", *o.NroHistoria)
	}
	if o.FechaVisita == nil || o.FechaVisita.Day() != 14 {
		t.Errorf("expected fechaVisita to be parsed, got %v", o.FechaVisita)
	}
	if len(repo.versions[o.ID]) != 1 || repo.versions[o.ID][0].VersionNumber != 1 {
		t.Errorf("expected version 1 to be created, got %v", repo.versions[o.ID])
	}
}

func TestCreateOdontogram_NroCuentaFallback(t *testing.T) {
	svc, _, _ := newTestService()

	var req CreateRequest
	if err := req.NroCuenta.UnmarshalJSON([]byte(`12345`)); err != nil {
		t.Fatalf("unmarshal nroCuenta: %v", err)
	}
	o, _, err := svc.CreateOdontogram(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.NroHistoria == nil || *o.NroHistoria != "12345" {
		t.Errorf("expected nroHistoria from nroCuenta, got %v", o.NroHistoria)
	}
}

func TestCreateOdontogram_RecordRequired(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.CreateOdontogram(context.Background(), &CreateRequest{NroHistoria: strPtr("  ")})
	if !isValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateOdontogram_BadFecha(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.CreateOdontogram(context.Background(), &CreateRequest{
		NroHistoria: strPtr("HC-1"),
		FechaVisita: strPtr("14/05/2024"),
	})
	if !isValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateOdontogram_ColumnWidths(t *testing.T) {
	svc, repo, _ := newTestService()

	tests := []struct {
		name string
		req  *CreateRequest
	}{
		{"nroHistoria", &CreateRequest{NroHistoria: strPtr(strings.Repeat("9", 51))}},
		{"tipoVisita", &CreateRequest{NroHistoria: strPtr("HC-1"), TipoVisita: strPtr(strings.Repeat("c", 51))}},
		{"usuario", &CreateRequest{NroHistoria: strPtr("HC-1"), Usuario: strPtr(strings.Repeat("u", 101))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateOdontogram(context.Background(), tt.req)
			if !isValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
	if len(repo.odontograms) != 0 {
		t.Errorf("expected nothing stored, got %d odontogramas", len(repo.odontograms))
	}
}

func TestChartWrites_ColumnWidths(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-5")
	long := func(n int) *string { return strPtr(strings.Repeat("x", n)) }

	tests := []struct {
		name  string
		write func() error
	}{
		{"area", func() error {
			return svc.UpsertArea(ctx, &DienteArea{OdontogramID: o.ID, NumeroDiente: 36, Area: *long(51)})
		}},
		{"area color", func() error {
			return svc.UpsertArea(ctx, &DienteArea{OdontogramID: o.ID, NumeroDiente: 36, Area: "oclusal", Color: long(31)})
		}},
		{"codigo", func() error {
			return svc.AddCodigo(ctx, &DienteCodigo{OdontogramID: o.ID, NumeroDiente: 21, Codigo: *long(51)})
		}},
		{"extraction usuario", func() error {
			return svc.MarkExtraction(ctx, &Diente{OdontogramID: o.ID, NumeroDiente: 18, Usuario: long(101)})
		}},
		{"transposicion nroHistoria", func() error {
			return svc.CreateTransposicion(ctx, &Transposicion{OdontogramID: o.ID, DienteFrom: 11, DienteTo: 21, NroHistoria: long(51)})
		}},
		{"diastema tamano", func() error {
			tam := 10000.0
			return svc.CreateDiastema(ctx, &Diastema{OdontogramID: o.ID, DienteLeft: 11, DienteRight: 21, Tamano: &tam})
		}},
		{"protesis observaciones", func() error {
			return svc.CreateProtesis(ctx, &Protesis{OdontogramID: o.ID, Tipo: "fija", Observaciones: long(501)})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.write(); !isValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestFull(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-9")

	if err := svc.MarkExtraction(ctx, &Diente{OdontogramID: o.ID, NumeroDiente: 18}); err != nil {
		t.Fatalf("mark extraction: %v", err)
	}
	if err := svc.CreateProtesis(ctx, &Protesis{OdontogramID: o.ID, Tipo: "fija", Dientes: []int{14, 15, 16}}); err != nil {
		t.Fatalf("create protesis: %v", err)
	}

	full, err := svc.Full(ctx, o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(full.Dientes) != 1 || *full.Dientes[0].Estado != EstadoExtraccion {
		t.Errorf("expected one extracted tooth, got %v", full.Dientes)
	}
	if len(full.Protesis) != 1 || len(full.Protesis[0].Dientes) != 3 {
		t.Errorf("expected prosthesis with 3 teeth, got %v", full.Protesis)
	}
	if full.Areas == nil || full.Codigos == nil {
		t.Error("expected empty lists instead of nil")
	}
	if len(full.Audit) != 2 || full.Audit[0].Action != ActionInsertProtesis {
		t.Errorf("expected audit newest first, got %v", full.Audit)
	}
}

func TestFull_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Full(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoricoDetail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-7")

	full, err := svc.HistoricoDetail(ctx, "HC-7", o.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Correlativo != Correlativo(o.ID) || len(full.Correlativo) != 10 {
		t.Errorf("unexpected correlativo %q", full.Correlativo)
	}
	if len(full.Versiones) != 1 {
		t.Errorf("expected 1 version, got %d", len(full.Versiones))
	}

	if _, err := svc.HistoricoDetail(ctx, "HC-other", o.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign record, got %v", err)
	}
}

func TestExiste(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Existe(ctx, "HC-404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exists || res.OdontogramasCount != 0 || res.Source != RecordSource {
		t.Errorf("unexpected result for unknown record: %+v", res)
	}

	repo.pacientes["HC-1"] = &Paciente{IDPaciente: 3, NroHistoriaClinica: "HC-1", NombresPaciente: "Quispe Mamani Rosa"}
	createTestOdontogram(t, svc, "HC-1")
	newest := createTestOdontogram(t, svc, "HC-1")

	res, err = svc.Existe(ctx, " HC-1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Exists || res.OdontogramasCount != 2 {
		t.Fatalf("expected 2 odontogramas, got %+v", res)
	}
	if res.LatestOdontogramaID == nil || *res.LatestOdontogramaID != newest.ID {
		t.Errorf("expected latest odontograma %d, got %v", newest.ID, res.LatestOdontogramaID)
	}
	if res.LatestVersionID == nil {
		t.Error("expected latest version id")
	}
}

func TestUpdateObservaciones(t *testing.T) {
	svc, repo, aud := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-2")

	if err := svc.UpdateObservaciones(ctx, o.ID, &ObservacionesRequest{Observaciones: strPtr("caries múltiples")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *repo.odontograms[o.ID].Observaciones != "caries múltiples" {
		t.Error("expected observaciones to be stored")
	}
	if e := aud.last(); e.Action != ActionUpdateObservaciones || *e.Detail != "Len=16" {
		t.Errorf("unexpected audit entry %s %v", e.Action, *e.Detail)
	}

	if err := svc.UpdateObservaciones(ctx, o.ID, &ObservacionesRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *aud.last().Detail != "NULL" {
		t.Errorf("expected NULL detail, got %s", *aud.last().Detail)
	}

	if err := svc.UpdateObservaciones(ctx, 404, &ObservacionesRequest{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- Base chart --

func TestMarkExtraction_ResolvesHistoria(t *testing.T) {
	svc, repo, aud := newTestService()
	o := createTestOdontogram(t, svc, "HC-3")

	d := &Diente{OdontogramID: o.ID, NumeroDiente: 48}
	if err := svc.MarkExtraction(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.NroHistoria == nil || *d.NroHistoria != "HC-3" {
		t.Errorf("expected nroHistoria from header, got %v", d.NroHistoria)
	}
	if repo.dientes[[2]int{o.ID, 48}] == nil {
		t.Error("expected tooth row")
	}
	if e := aud.last(); e.Action != ActionMarkExtraccion || *e.Detail != "Diente=48" {
		t.Errorf("unexpected audit entry %s", e.Action)
	}
}

func TestMarkExtraction_InvalidTooth(t *testing.T) {
	svc, _, _ := newTestService()
	o := createTestOdontogram(t, svc, "HC-3")

	for _, n := range []int{0, 19, 56, 90} {
		err := svc.MarkExtraction(context.Background(), &Diente{OdontogramID: o.ID, NumeroDiente: n})
		if !isValidation(err) {
			t.Errorf("tooth %d: expected validation error, got %v", n, err)
		}
	}
}

func TestMarkExtraction_MissingOdontogram(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.MarkExtraction(context.Background(), &Diente{OdontogramID: 77, NumeroDiente: 11})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertArea(t *testing.T) {
	svc, repo, aud := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-4")

	a := &DienteArea{OdontogramID: o.ID, NumeroDiente: 36, Area: "oclusal", Estado: strPtr("caries")}
	if err := svc.UpsertArea(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := &DienteArea{OdontogramID: o.ID, NumeroDiente: 36, Area: "oclusal", Estado: strPtr("obturado")}
	if err := svc.UpsertArea(ctx, again); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.areas) != 1 {
		t.Errorf("expected a single area row, got %d", len(repo.areas))
	}
	if again.ID != a.ID {
		t.Errorf("expected upsert to keep id %d, got %d", a.ID, again.ID)
	}
	if *aud.last().Detail != "Diente=36;Area=oclusal;Estado=obturado" {
		t.Errorf("unexpected audit detail %s", *aud.last().Detail)
	}

	if err := svc.UpsertArea(ctx, &DienteArea{OdontogramID: o.ID, NumeroDiente: 36}); !isValidation(err) {
		t.Errorf("expected validation error for missing area, got %v", err)
	}
}

func TestAddCodigo(t *testing.T) {
	svc, _, aud := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-5")

	c := &DienteCodigo{OdontogramID: o.ID, NumeroDiente: 21, Codigo: "D2391", NroHistoria: strPtr("HC-override")}
	if err := svc.AddCodigo(ctx, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected id")
	}
	if *c.NroHistoria != "HC-override" {
		t.Errorf("expected sent nroHistoria to win, got %s", *c.NroHistoria)
	}
	if *aud.last().Detail != "Diente=21;Codigo=D2391" {
		t.Errorf("unexpected audit detail %s", *aud.last().Detail)
	}

	if err := svc.AddCodigo(ctx, &DienteCodigo{OdontogramID: o.ID, NumeroDiente: 21}); !isValidation(err) {
		t.Errorf("expected validation error for missing codigo, got %v", err)
	}
}

func TestTransposicion_RequiresHistoria(t *testing.T) {
	svc, repo, _ := newTestService()
	o := createTestOdontogram(t, svc, "HC-6")
	repo.odontograms[o.ID].NroHistoria = nil

	err := svc.CreateTransposicion(context.Background(), &Transposicion{OdontogramID: o.ID, DienteFrom: 12, DienteTo: 13})
	if !isValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDiastema_AllowsMissingHistoria(t *testing.T) {
	svc, repo, aud := newTestService()
	o := createTestOdontogram(t, svc, "HC-6")
	repo.odontograms[o.ID].NroHistoria = nil

	tam := 1.5
	d := &Diastema{OdontogramID: o.ID, DienteLeft: 11, DienteRight: 21, Tamano: &tam}
	if err := svc.CreateDiastema(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *aud.last().Detail != "L=11;R=21;Tam=1.5" {
		t.Errorf("unexpected audit detail %s", *aud.last().Detail)
	}
}

func TestDeleteScopedToOdontogram(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	a := createTestOdontogram(t, svc, "HC-A")
	b := createTestOdontogram(t, svc, "HC-B")

	d := &Diastema{OdontogramID: a.ID, DienteLeft: 11, DienteRight: 21}
	if err := svc.CreateDiastema(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteDiastema(ctx, b.ID, d.ID, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting through another odontograma, got %v", err)
	}
	if err := svc.DeleteDiastema(ctx, a.ID, d.ID, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := svc.DeleteDiastema(ctx, a.ID, d.ID, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateProtesis(t *testing.T) {
	svc, _, aud := newTestService()
	ctx := context.Background()
	o := createTestOdontogram(t, svc, "HC-P")

	if err := svc.CreateProtesis(ctx, &Protesis{OdontogramID: o.ID, Dientes: []int{11}}); !isValidation(err) {
		t.Errorf("expected validation error for missing tipo, got %v", err)
	}
	if err := svc.CreateProtesis(ctx, &Protesis{OdontogramID: o.ID, Tipo: "fija", Dientes: []int{11, 99}}); !isValidation(err) {
		t.Errorf("expected validation error for invalid tooth, got %v", err)
	}

	p := &Protesis{OdontogramID: o.ID, Tipo: "removible", Dientes: []int{34, 35}}
	if err := svc.CreateProtesis(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *aud.last().Detail != "Tipo=removible;Dientes=34,35" {
		t.Errorf("unexpected audit detail %s", *aud.last().Detail)
	}
}
