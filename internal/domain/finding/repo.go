package finding

import "context"

type Repository interface {
	// Insert stores f and its teeth, filling in ID and FechaCreacion.
	Insert(ctx context.Context, k Kind, f Finding) error
	// Delete removes finding id only when it belongs to versionID.
	Delete(ctx context.Context, k Kind, versionID, id int) error
	List(ctx context.Context, k Kind, versionID int) ([]Finding, error)
	LoadAll(ctx context.Context, versionID int) (Set, error)
}
