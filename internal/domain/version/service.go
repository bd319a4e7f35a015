package version

import (
	"context"
	"fmt"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/metrics"
	"github.com/odontograma/odontograma/pkg/fdi"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

const (
	entityVersion  = "Version"
	entitySnapshot = "VersionSnapshot"
	entityRaiz     = "Raiz"
)

type Auditor interface {
	RecordVersion(ctx context.Context, e *audit.VersionEntry)
}

type Service struct {
	repo    Repository
	audit   Auditor
	archive Archiver
}

// NewService builds the version service. archive may be nil.
func NewService(repo Repository, auditor Auditor, archive Archiver) *Service {
	return &Service{repo: repo, audit: auditor, archive: archive}
}

func (s *Service) Create(ctx context.Context, odontogramID int, req *CreateRequest) (*Version, error) {
	if req.ParentVersionID != nil && *req.ParentVersionID <= 0 {
		return nil, apperr.Validation("parentVersionId must be positive")
	}
	if err := apperr.MaxLen("usuario", req.Usuario, apperr.UsuarioLen); err != nil {
		return nil, err
	}
	v := &Version{
		OdontogramID:    odontogramID,
		ParentVersionID: req.ParentVersionID,
		Metadata:        req.Metadata,
		UsuarioCreacion: req.Usuario,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	metrics.VersionsCreatedTotal.Inc()
	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &v.ID,
		Entity:    entityVersion,
		Action:    audit.ActionInsert,
		Key:       audit.Ptr(fmt.Sprintf("VersionId=%d", v.ID)),
		Detail:    audit.Ptr(fmt.Sprintf("Number=%d", v.VersionNumber)),
		User:      v.UsuarioCreacion,
	})
	return v, nil
}

func (s *Service) List(ctx context.Context, odontogramID int) ([]*Version, error) {
	return s.repo.ListByOdontogram(ctx, odontogramID)
}

func (s *Service) Lock(ctx context.Context, versionID int, usuario *string) error {
	if err := apperr.MaxLen("usuario", usuario, apperr.UsuarioLen); err != nil {
		return err
	}
	if err := s.repo.Lock(ctx, versionID, usuario); err != nil {
		return err
	}
	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &versionID,
		Entity:    entityVersion,
		Action:    audit.ActionLock,
		Key:       audit.Ptr(fmt.Sprintf("VersionId=%d", versionID)),
		User:      usuario,
	})
	return nil
}

// WithWritable runs fn against an unlocked version. It returns ErrNotFound
// for a missing version and ErrVersionLocked for a locked one. A Lock issued
// while fn runs takes effect after fn commits.
func (s *Service) WithWritable(ctx context.Context, versionID int, fn func(ctx context.Context) error) error {
	return s.repo.RunWritable(ctx, versionID, fn)
}

// -- Snapshot --

func (s *Service) SaveSnapshot(ctx context.Context, versionID int, req *SnapshotRequest) error {
	if !req.Data.Valid {
		return apperr.Validation("data is required")
	}
	if err := apperr.MaxLen("usuario", req.Usuario, apperr.UsuarioLen); err != nil {
		return err
	}
	snap := &Snapshot{
		VersionID:       versionID,
		Data:            req.Data.String,
		Metadata:        req.Metadata,
		UsuarioCreacion: req.Usuario,
	}
	err := s.WithWritable(ctx, versionID, func(ctx context.Context) error {
		return s.repo.UpsertSnapshot(ctx, snap)
	})
	if err != nil {
		return err
	}
	metrics.SnapshotBytes.Observe(float64(len(snap.Data)))

	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &versionID,
		Entity:    entitySnapshot,
		Action:    audit.ActionUpsert,
		Key:       audit.Ptr(fmt.Sprintf("VersionId=%d", versionID)),
		Detail:    audit.Ptr(fmt.Sprintf("Bytes=%d", len(snap.Data))),
		User:      req.Usuario,
	})

	if s.archive != nil {
		s.archive.Archive(ctx, versionID, snap.Data)
	}
	return nil
}

func (s *Service) GetSnapshot(ctx context.Context, versionID int) (*SnapshotView, error) {
	snap, err := s.repo.GetSnapshot(ctx, versionID)
	if err != nil {
		return nil, err
	}
	return &SnapshotView{
		VersionID: versionID,
		Data:      jsontext.From(snap.Data).Parsed(),
		Raw:       snap.Data,
		Meta:      snap,
	}, nil
}

// -- Roots --

func (s *Service) UpsertRaiz(ctx context.Context, r *Raiz) error {
	if err := fdi.Check("numeroDiente", r.NumeroDiente); err != nil {
		return apperr.Invalid(err)
	}
	if r.Configuracion <= 0 {
		return apperr.Validation("configuracion is required")
	}
	if err := apperr.First(
		apperr.SmallInt("configuracion", r.Configuracion),
		apperr.MaxLen("usuario", r.Usuario, apperr.UsuarioLen),
	); err != nil {
		return err
	}
	err := s.WithWritable(ctx, r.VersionID, func(ctx context.Context) error {
		return s.repo.UpsertRaiz(ctx, r)
	})
	if err != nil {
		return err
	}
	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &r.VersionID,
		Entity:    entityRaiz,
		Action:    audit.ActionUpsert,
		Key:       audit.Ptr(fmt.Sprintf("Id=%d", r.ID)),
		Detail:    audit.Ptr(fmt.Sprintf("Diente=%d;Cfg=%d", r.NumeroDiente, r.Configuracion)),
		User:      r.Usuario,
	})
	metrics.RecordFinding(entityRaiz, audit.ActionUpsert)
	return nil
}

func (s *Service) ListRaices(ctx context.Context, versionID int) ([]*Raiz, error) {
	return s.repo.ListRaices(ctx, versionID)
}

func (s *Service) DeleteRaiz(ctx context.Context, versionID, id int, usuario *string) error {
	err := s.WithWritable(ctx, versionID, func(ctx context.Context) error {
		return s.repo.DeleteRaiz(ctx, versionID, id)
	})
	if err != nil {
		return err
	}
	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &versionID,
		Entity:    entityRaiz,
		Action:    audit.ActionDelete,
		Key:       audit.Ptr(fmt.Sprintf("Id=%d", id)),
		User:      usuario,
	})
	metrics.RecordFinding(entityRaiz, audit.ActionDelete)
	return nil
}

// -- Full view --

func (s *Service) Full(ctx context.Context, versionID int) (*Full, error) {
	return s.repo.LoadFull(ctx, versionID)
}
