package requerimiento

import "context"

type Repository interface {
	// Get returns the form for correlativo and nroCuenta. Several matching
	// forms resolve to the lowest id.
	Get(ctx context.Context, correlativo string, nroCuenta int) (*Requerimiento, error)
	// ListOpciones returns the options selected on form id in entry order.
	ListOpciones(ctx context.Context, id int) ([]*Opcion, error)
}
