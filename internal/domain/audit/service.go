package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/odontograma/odontograma/internal/platform/metrics"
)

// Recorder writes audit rows best effort: a failed insert is logged and
// counted, never returned to the caller.
type Recorder struct {
	repo   Repository
	logger zerolog.Logger
}

func NewRecorder(repo Repository, logger zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, e *Entry) {
	if err := r.repo.Insert(ctx, e); err != nil {
		metrics.RecordAuditFailure("odontograma_audit")
		r.logger.Warn().Err(err).
			Str("accion", e.Action).
			Interface("odontograma_id", e.OdontogramID).
			Msg("audit insert failed")
	}
}

func (r *Recorder) RecordVersion(ctx context.Context, e *VersionEntry) {
	if err := r.repo.InsertVersion(ctx, e); err != nil {
		metrics.RecordAuditFailure("odontograma_version_audit")
		r.logger.Warn().Err(err).
			Str("entidad", e.Entity).
			Str("accion", e.Action).
			Interface("version_id", e.VersionID).
			Msg("version audit insert failed")
	}
}

func (r *Recorder) ListByOdontogram(ctx context.Context, odontogramID int) ([]*Entry, error) {
	return r.repo.ListByOdontogram(ctx, odontogramID)
}

func (r *Recorder) ListByVersion(ctx context.Context, versionID int) ([]*VersionEntry, error) {
	return r.repo.ListByVersion(ctx, versionID)
}
