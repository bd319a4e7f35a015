//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/odontograma/odontograma/internal/domain/finding"
	"github.com/odontograma/odontograma/internal/domain/version"
	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/blobstore"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

func mustKind(t *testing.T, path string) finding.Kind {
	t.Helper()
	k, ok := finding.Lookup(path)
	if !ok {
		t.Fatalf("unknown finding kind %s", path)
	}
	return k
}

func TestVersionLifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uniqueTenantID("version")
	createTenantSchema(t, ctx, tenantID)
	defer dropTenantSchema(t, ctx, tenantID)

	store := blobstore.NewInMemoryStore()
	svc := newServices(globalDB.Pool, version.NewSnapshotArchive(store, "default", zerolog.Nop()))

	err := withTenantConn(ctx, globalDB.Pool, tenantID, func(ctx context.Context) error {
		o, firstVersion := createTestOdontogram(t, ctx, svc, "HC-2002")

		t.Run("Create_NumbersSequentially", func(t *testing.T) {
			v, err := svc.version.Create(ctx, o.ID, &version.CreateRequest{
				Usuario:         strPtr("dr.ruiz"),
				ParentVersionID: &firstVersion,
			})
			if err != nil {
				t.Fatalf("create version: %v", err)
			}
			if v.VersionNumber != 2 {
				t.Errorf("expected version number 2, got %d", v.VersionNumber)
			}

			list, err := svc.version.List(ctx, o.ID)
			if err != nil {
				t.Fatalf("list versions: %v", err)
			}
			if len(list) != 2 {
				t.Errorf("expected 2 versions, got %d", len(list))
			}
		})

		t.Run("Create_UnknownOdontogram", func(t *testing.T) {
			_, err := svc.version.Create(ctx, o.ID+1000, &version.CreateRequest{})
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("expected not found, got %v", err)
			}
		})

		t.Run("Findings_SimpleAndComposite", func(t *testing.T) {
			fr := &finding.Fractura{Tipo: strPtr("horizontal")}
			fr.NumeroDiente = 11
			if err := svc.finding.Create(ctx, mustKind(t, "fractura"), firstVersion, fr); err != nil {
				t.Fatalf("create fractura: %v", err)
			}
			if fr.ID == 0 || fr.FechaCreacion.IsZero() {
				t.Errorf("expected id and fechaCreacion to be returned, got %+v", fr.Base)
			}

			pr := &finding.Protesis{
				TipoCodigo: "PPF",
				Dientes: []finding.ToothRef{
					{Numero: 14, Rol: strPtr("pilar")},
					{Numero: 15, Rol: strPtr("pontico")},
					{Numero: 16, Rol: strPtr("pilar")},
				},
			}
			if err := svc.finding.Create(ctx, mustKind(t, "protesis"), firstVersion, pr); err != nil {
				t.Fatalf("create protesis: %v", err)
			}

			list, err := svc.finding.List(ctx, mustKind(t, "protesis"), firstVersion)
			if err != nil {
				t.Fatalf("list protesis: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("expected 1 protesis, got %d", len(list))
			}
			got := list[0].(*finding.Protesis)
			if len(got.Dientes) != 3 || got.Dientes[1].Rol == nil || *got.Dientes[1].Rol != "pontico" {
				t.Errorf("unexpected protesis teeth %+v", got.Dientes)
			}

			err = svc.finding.Delete(ctx, mustKind(t, "fractura"), firstVersion+1, fr.ID, nil)
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("expected scoped delete to miss, got %v", err)
			}
		})

		t.Run("Raiz_Upserts", func(t *testing.T) {
			for _, cfg := range []int{1, 2} {
				r := &version.Raiz{VersionID: firstVersion, NumeroDiente: 36, Configuracion: cfg, Triangulo1Activo: true, Activo: true}
				if err := svc.version.UpsertRaiz(ctx, r); err != nil {
					t.Fatalf("upsert raiz: %v", err)
				}
			}
			list, err := svc.version.ListRaices(ctx, firstVersion)
			if err != nil {
				t.Fatalf("list raices: %v", err)
			}
			if len(list) != 1 || list[0].Configuracion != 2 {
				t.Errorf("expected one raiz with configuracion 2, got %+v", list)
			}
		})

		t.Run("Snapshot_RoundTripAndArchive", func(t *testing.T) {
			data := `{"dientes":{"11":{"estado":"sano"}}}`
			if err := svc.version.SaveSnapshot(ctx, firstVersion, &version.SnapshotRequest{Data: jsontext.From(data)}); err != nil {
				t.Fatalf("save snapshot: %v", err)
			}
			view, err := svc.version.GetSnapshot(ctx, firstVersion)
			if err != nil {
				t.Fatalf("get snapshot: %v", err)
			}
			if view.Raw != data {
				t.Errorf("expected raw snapshot %s, got %s", data, view.Raw)
			}
			var parsed map[string]interface{}
			if err := json.Unmarshal(view.Data, &parsed); err != nil {
				t.Errorf("expected parsed snapshot data: %v", err)
			}

			_, rc, err := store.Get(ctx, version.ArchiveKey(tenantID, firstVersion))
			if err != nil {
				t.Fatalf("expected archived snapshot: %v", err)
			}
			defer rc.Close()
			archived, _ := io.ReadAll(rc)
			if string(archived) != data {
				t.Errorf("expected archived copy to match, got %s", archived)
			}
		})

		t.Run("Full_HasEveryKind", func(t *testing.T) {
			full, err := svc.version.Full(ctx, firstVersion)
			if err != nil {
				t.Fatalf("full: %v", err)
			}
			for _, k := range finding.Kinds() {
				if _, ok := full.Findings[k.Key()]; !ok {
					t.Errorf("expected %s in full view", k.Key())
				}
			}
			if len(full.Findings["fracturas"]) != 1 {
				t.Errorf("expected 1 fractura, got %d", len(full.Findings["fracturas"]))
			}
			if len(full.Raices) != 1 {
				t.Errorf("expected 1 raiz, got %d", len(full.Raices))
			}
			if len(full.Audit) == 0 {
				t.Error("expected version audit entries")
			}
		})

		t.Run("Lock_RejectsWrites", func(t *testing.T) {
			if err := svc.version.Lock(ctx, firstVersion, strPtr("dr.ruiz")); err != nil {
				t.Fatalf("lock: %v", err)
			}
			if err := svc.version.Lock(ctx, firstVersion, strPtr("otro")); err != nil {
				t.Fatalf("second lock: %v", err)
			}
			v, err := svc.version.Full(ctx, firstVersion)
			if err != nil {
				t.Fatalf("full: %v", err)
			}
			if !v.Version.Locked || v.Version.UsuarioBloqueo == nil || *v.Version.UsuarioBloqueo != "dr.ruiz" {
				t.Errorf("expected version locked by the first locker, got %+v", v.Version)
			}

			fr := &finding.Fractura{}
			fr.NumeroDiente = 21
			err = svc.finding.Create(ctx, mustKind(t, "fractura"), firstVersion, fr)
			if !errors.Is(err, apperr.ErrVersionLocked) {
				t.Errorf("expected locked error, got %v", err)
			}
			err = svc.version.SaveSnapshot(ctx, firstVersion, &version.SnapshotRequest{Data: jsontext.From(`{}`)})
			if !errors.Is(err, apperr.ErrVersionLocked) {
				t.Errorf("expected locked error for snapshot, got %v", err)
			}
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestVersionLock_WaitsForOpenWrite(t *testing.T) {
	ctx := context.Background()
	tenantID := uniqueTenantID("lockwait")
	createTenantSchema(t, ctx, tenantID)
	defer dropTenantSchema(t, ctx, tenantID)

	svc := newServices(globalDB.Pool, nil)

	err := withTenantConn(ctx, globalDB.Pool, tenantID, func(ctx context.Context) error {
		_, versionID := createTestOdontogram(t, ctx, svc, "HC-4004")

		lockDone := make(chan error, 1)
		lockFinished := false
		err := svc.version.WithWritable(ctx, versionID, func(txCtx context.Context) error {
			go func() {
				lockDone <- withTenantConn(context.Background(), globalDB.Pool, tenantID, func(ctx context.Context) error {
					return svc.version.Lock(ctx, versionID, strPtr("dr.ruiz"))
				})
			}()

			select {
			case err := <-lockDone:
				lockFinished = true
				t.Errorf("expected lock to wait for the open write, finished with %v", err)
			case <-time.After(300 * time.Millisecond):
			}

			fr := &finding.Fractura{}
			fr.NumeroDiente = 11
			return svc.finding.Create(txCtx, mustKind(t, "fractura"), versionID, fr)
		})
		if err != nil {
			t.Fatalf("write under share lock: %v", err)
		}

		if !lockFinished {
			select {
			case err := <-lockDone:
				if err != nil {
					t.Fatalf("lock: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("lock did not finish after the write committed")
			}
		}

		list, err := svc.finding.List(ctx, mustKind(t, "fractura"), versionID)
		if err != nil {
			t.Fatalf("list fracturas: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("expected the committed write to survive, got %d fracturas", len(list))
		}

		fr := &finding.Fractura{}
		fr.NumeroDiente = 12
		err = svc.finding.Create(ctx, mustKind(t, "fractura"), versionID, fr)
		if !errors.Is(err, apperr.ErrVersionLocked) {
			t.Errorf("expected locked error after the lock committed, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
