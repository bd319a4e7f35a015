package catalog

import "context"

type Repository interface {
	// Search matches q against code and description in every catalogue.
	// limit and offset apply to each catalogue separately.
	Search(ctx context.Context, q string, limit, offset int) ([]*Codigo, error)
	// Browse lists services ordered by code.
	Browse(ctx context.Context, limit, offset int) ([]*Codigo, error)
	Upsert(ctx context.Context, c *Codigo) error
}
