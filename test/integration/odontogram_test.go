//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/odontograma/odontograma/internal/domain/odontogram"
	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/db"
)

func TestOdontogramBaseChart(t *testing.T) {
	ctx := context.Background()
	tenantID := uniqueTenantID("chart")
	createTenantSchema(t, ctx, tenantID)
	defer dropTenantSchema(t, ctx, tenantID)

	svc := newServices(globalDB.Pool, nil)

	err := withTenantConn(ctx, globalDB.Pool, tenantID, func(ctx context.Context) error {
		o, versionID, err := svc.odontogram.CreateOdontogram(ctx, &odontogram.CreateRequest{
			NroHistoria: strPtr(" HC-1001 "),
			Usuario:     strPtr("dr.ruiz"),
		})
		if err != nil {
			t.Fatalf("create odontogram: %v", err)
		}
		if o.ID == 0 || versionID == 0 {
			t.Fatalf("expected ids, got odontogram %d version %d", o.ID, versionID)
		}
		if o.NroHistoria == nil || *o.NroHistoria != "HC-1001" {
			t.Errorf("expected trimmed nroHistoria, got %v", o.NroHistoria)
		}

		t.Run("Extraction_Upserts", func(t *testing.T) {
			for i := 0; i < 2; i++ {
				if err := svc.odontogram.MarkExtraction(ctx, &odontogram.Diente{OdontogramID: o.ID, NumeroDiente: 18}); err != nil {
					t.Fatalf("mark extraction: %v", err)
				}
			}
			var count int
			db.ConnFromContext(ctx).QueryRow(ctx,
				"SELECT COUNT(*) FROM diente WHERE odontograma_id = $1 AND numero_diente = 18", o.ID).Scan(&count)
			if count != 1 {
				t.Errorf("expected one diente row, got %d", count)
			}
		})

		t.Run("Transposicion_CreateDelete", func(t *testing.T) {
			tr := &odontogram.Transposicion{OdontogramID: o.ID, DienteFrom: 11, DienteTo: 21}
			if err := svc.odontogram.CreateTransposicion(ctx, tr); err != nil {
				t.Fatalf("create transposicion: %v", err)
			}
			if tr.NroHistoria == nil || *tr.NroHistoria != "HC-1001" {
				t.Errorf("expected nroHistoria resolved from header, got %v", tr.NroHistoria)
			}

			err := svc.odontogram.DeleteTransposicion(ctx, o.ID+1000, tr.ID, nil)
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("expected not found for foreign odontogram, got %v", err)
			}
			if err := svc.odontogram.DeleteTransposicion(ctx, o.ID, tr.ID, nil); err != nil {
				t.Errorf("delete transposicion: %v", err)
			}
		})

		t.Run("Protesis_WithTeeth", func(t *testing.T) {
			p := &odontogram.Protesis{OdontogramID: o.ID, Tipo: "puente", Dientes: []int{14, 15, 16, 15}}
			if err := svc.odontogram.CreateProtesis(ctx, p); err != nil {
				t.Fatalf("create protesis: %v", err)
			}
		})

		t.Run("Full", func(t *testing.T) {
			full, err := svc.odontogram.Full(ctx, o.ID)
			if err != nil {
				t.Fatalf("full: %v", err)
			}
			if len(full.Dientes) != 1 {
				t.Errorf("expected 1 tooth, got %d", len(full.Dientes))
			}
			if len(full.Transposiciones) != 0 {
				t.Errorf("expected deleted transposition to be gone, got %d", len(full.Transposiciones))
			}
			if len(full.Protesis) != 1 || len(full.Protesis[0].Dientes) != 3 {
				t.Errorf("expected one prosthesis with 3 distinct teeth, got %+v", full.Protesis)
			}
			if len(full.Areas) != 0 || full.Areas == nil {
				t.Errorf("expected empty non-nil areas, got %v", full.Areas)
			}
			if len(full.Audit) == 0 {
				t.Error("expected audit entries")
			}
		})

		t.Run("Existe", func(t *testing.T) {
			_, err := db.ConnFromContext(ctx).Exec(ctx,
				`INSERT INTO pacientes (nro_historia_clinica, apellido_paterno, primer_nombre)
				 VALUES ('HC-1001', 'Quispe', 'Ana')`)
			if err != nil {
				t.Fatalf("insert paciente: %v", err)
			}
			res, err := svc.odontogram.Existe(ctx, "HC-1001")
			if err != nil {
				t.Fatalf("existe: %v", err)
			}
			if !res.Exists || res.OdontogramasCount != 1 {
				t.Errorf("expected existing record with 1 odontogram, got %+v", res)
			}
			if res.LatestVersionID == nil || *res.LatestVersionID != versionID {
				t.Errorf("expected latest version %d, got %v", versionID, res.LatestVersionID)
			}

			res, err = svc.odontogram.Existe(ctx, "HC-9999")
			if err != nil {
				t.Fatalf("existe: %v", err)
			}
			if res.Exists {
				t.Error("expected unknown record to not exist")
			}
		})

		t.Run("Historico_Correlativo", func(t *testing.T) {
			rows, err := svc.odontogram.Historico(ctx, "HC-1001")
			if err != nil {
				t.Fatalf("historico: %v", err)
			}
			if len(rows) != 1 || rows[0].Correlativo != odontogram.Correlativo(o.ID) {
				t.Errorf("unexpected historico rows %+v", rows)
			}
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
