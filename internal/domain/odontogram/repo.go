package odontogram

import "context"

type Repository interface {
	// Create inserts the header and its first version atomically and returns
	// the id of that version.
	Create(ctx context.Context, o *Odontogram) (int, error)
	GetByID(ctx context.Context, id int) (*Odontogram, error)
	ListByHistoria(ctx context.Context, nroHistoria string) ([]*Odontogram, error)
	ListSummaries(ctx context.Context, nroHistoria string) ([]*Summary, error)
	Historico(ctx context.Context, nroHistoria string) ([]*HistoricoRow, error)
	ListVersionRefs(ctx context.Context, odontogramID int) ([]*VersionRef, error)
	LatestVersionID(ctx context.Context, odontogramID int) (*int, error)
	UpdateObservaciones(ctx context.Context, id int, observaciones, usuario *string) error
	FindPaciente(ctx context.Context, nroHistoria string) (*Paciente, error)

	ChartRepository
}

// ChartRepository persists the base findings of an odontogram. Deletes are
// scoped to the odontogram and report apperr.ErrNotFound when no row matched.
type ChartRepository interface {
	MarkExtraction(ctx context.Context, d *Diente) error
	UpsertArea(ctx context.Context, a *DienteArea) error
	AddCodigo(ctx context.Context, c *DienteCodigo) error
	CreateTransposicion(ctx context.Context, t *Transposicion) error
	ListTransposiciones(ctx context.Context, odontogramID int) ([]*Transposicion, error)
	DeleteTransposicion(ctx context.Context, odontogramID, id int) error
	CreateDiastema(ctx context.Context, d *Diastema) error
	ListDiastemas(ctx context.Context, odontogramID int) ([]*Diastema, error)
	DeleteDiastema(ctx context.Context, odontogramID, id int) error
	CreateProtesis(ctx context.Context, p *Protesis) error
	DeleteProtesis(ctx context.Context, odontogramID, id int) error
	LoadChart(ctx context.Context, odontogramID int) (*Chart, error)
}
