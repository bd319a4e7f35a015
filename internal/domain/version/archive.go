package version

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/odontograma/odontograma/internal/platform/blobstore"
	"github.com/odontograma/odontograma/internal/platform/db"
	"github.com/odontograma/odontograma/internal/platform/metrics"
)

// Archiver keeps a copy of saved snapshots outside the database.
type Archiver interface {
	Archive(ctx context.Context, versionID int, data string)
}

// SnapshotArchive writes snapshots to a blob store under
// snapshots/<tenant>/<versionId>.json. Failures are logged and counted.
type SnapshotArchive struct {
	store         blobstore.Store
	defaultTenant string
	logger        zerolog.Logger
}

func NewSnapshotArchive(store blobstore.Store, defaultTenant string, logger zerolog.Logger) *SnapshotArchive {
	return &SnapshotArchive{store: store, defaultTenant: defaultTenant, logger: logger}
}

// ArchiveKey returns the object key of a version snapshot.
func ArchiveKey(tenant string, versionID int) string {
	return fmt.Sprintf("snapshots/%s/%d.json", tenant, versionID)
}

func (a *SnapshotArchive) Archive(ctx context.Context, versionID int, data string) {
	tenant := db.TenantFromContext(ctx)
	if tenant == "" {
		tenant = a.defaultTenant
	}
	key := ArchiveKey(tenant, versionID)

	info, err := a.store.Put(ctx, key, strings.NewReader(data), blobstore.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"archive-id": uuid.NewString(),
			"tenant":     tenant,
			"version-id": strconv.Itoa(versionID),
		},
	})
	if err != nil {
		metrics.SnapshotArchiveTotal.WithLabelValues("error").Inc()
		a.logger.Warn().Err(err).Str("key", key).Msg("snapshot archive failed")
		return
	}
	metrics.SnapshotArchiveTotal.WithLabelValues("ok").Inc()
	a.logger.Debug().Str("key", key).Int64("bytes", info.Size).Msg("snapshot archived")
}
