package audit

import "context"

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	InsertVersion(ctx context.Context, e *VersionEntry) error
	ListByOdontogram(ctx context.Context, odontogramID int) ([]*Entry, error)
	ListByVersion(ctx context.Context, versionID int) ([]*VersionEntry, error)
}
