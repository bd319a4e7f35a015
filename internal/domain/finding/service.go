package finding

import (
	"context"
	"fmt"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/platform/metrics"
)

// VersionGuard runs writes against a version, rejecting missing or locked
// versions and holding off a concurrent lock until the write commits.
type VersionGuard interface {
	WithWritable(ctx context.Context, versionID int, fn func(ctx context.Context) error) error
}

type Auditor interface {
	RecordVersion(ctx context.Context, e *audit.VersionEntry)
}

type Service struct {
	repo  Repository
	guard VersionGuard
	audit Auditor
}

func NewService(repo Repository, guard VersionGuard, auditor Auditor) *Service {
	return &Service{repo: repo, guard: guard, audit: auditor}
}

// Create validates f and stores it against versionID.
func (s *Service) Create(ctx context.Context, k Kind, versionID int, f Finding) error {
	if err := f.validate(); err != nil {
		return err
	}
	if err := k.check(f); err != nil {
		return err
	}
	b := f.base()
	b.VersionID = versionID
	if comp, ok := f.(composite); ok && comp.teeth() == nil {
		comp.setTeeth([]ToothRef{})
	}
	err := s.guard.WithWritable(ctx, versionID, func(ctx context.Context) error {
		return s.repo.Insert(ctx, k, f)
	})
	if err != nil {
		return err
	}

	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &versionID,
		Entity:    k.Entity(),
		Action:    audit.ActionInsert,
		Key:       audit.Ptr(fmt.Sprintf("Id=%d", b.ID)),
		Detail:    audit.Ptr(f.detail()),
		User:      b.Usuario,
	})
	metrics.RecordFinding(k.Entity(), audit.ActionInsert)
	return nil
}

func (s *Service) Delete(ctx context.Context, k Kind, versionID, id int, usuario *string) error {
	err := s.guard.WithWritable(ctx, versionID, func(ctx context.Context) error {
		return s.repo.Delete(ctx, k, versionID, id)
	})
	if err != nil {
		return err
	}
	s.audit.RecordVersion(ctx, &audit.VersionEntry{
		VersionID: &versionID,
		Entity:    k.Entity(),
		Action:    audit.ActionDelete,
		Key:       audit.Ptr(fmt.Sprintf("Id=%d", id)),
		User:      usuario,
	})
	metrics.RecordFinding(k.Entity(), audit.ActionDelete)
	return nil
}

func (s *Service) List(ctx context.Context, k Kind, versionID int) ([]Finding, error) {
	return s.repo.List(ctx, k, versionID)
}
