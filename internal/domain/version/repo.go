package version

import "context"

type Repository interface {
	// Create numbers v after the highest existing version of its odontogram.
	Create(ctx context.Context, v *Version) error
	// RunWritable runs fn in a transaction holding a share lock on version
	// id. It fails with ErrNotFound or ErrVersionLocked without calling fn.
	RunWritable(ctx context.Context, id int, fn func(ctx context.Context) error) error
	ListByOdontogram(ctx context.Context, odontogramID int) ([]*Version, error)
	// Lock marks the version read-only. Locking twice keeps the first lock.
	Lock(ctx context.Context, id int, usuario *string) error

	UpsertSnapshot(ctx context.Context, s *Snapshot) error
	GetSnapshot(ctx context.Context, versionID int) (*Snapshot, error)

	UpsertRaiz(ctx context.Context, r *Raiz) error
	ListRaices(ctx context.Context, versionID int) ([]*Raiz, error)
	DeleteRaiz(ctx context.Context, versionID, id int) error

	LoadFull(ctx context.Context, versionID int) (*Full, error)
}
