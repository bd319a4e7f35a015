package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Guard is an idempotent schema fix-up applied after migrations. Guards keep
// older tenant schemas, created before a column or table existed, in line with
// what the repositories write.
type Guard struct {
	Name       string
	Statements []string
}

// GuardResult reports the outcome of one guard.
type GuardResult struct {
	Name string
	Err  error
}

// historiaTables carry the clinical record number alongside the odontogram id.
var historiaTables = []string{
	"odontograma", "diente", "diente_area", "diente_codigo",
	"transposicion", "protesis", "diastema", "odontograma_audit",
}

var observacionesColumns = []struct {
	table   string
	colType string
}{
	{"odontograma", "TEXT"},
	{"diente_area", "VARCHAR(500)"},
	{"protesis", "VARCHAR(500)"},
	{"diastema", "VARCHAR(500)"},
}

var raizColumns = []string{
	"configuracion SMALLINT NOT NULL DEFAULT 1",
	"triangulo1_activo BOOLEAN NOT NULL DEFAULT FALSE",
	"triangulo2_activo BOOLEAN NOT NULL DEFAULT FALSE",
	"triangulo3_activo BOOLEAN NOT NULL DEFAULT FALSE",
	"activo BOOLEAN NOT NULL DEFAULT TRUE",
	"metadata TEXT",
	"fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()",
	"usuario_creacion VARCHAR(100)",
	"fecha_modificacion TIMESTAMPTZ",
	"usuario_modificacion VARCHAR(100)",
}

// Guards returns the schema guards in the order they run.
func Guards() []Guard {
	var historia []string
	for _, t := range historiaTables {
		historia = append(historia,
			fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS nro_historia VARCHAR(50)", t),
			fmt.Sprintf(`DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.columns
             WHERE table_schema = current_schema() AND table_name = '%[1]s' AND column_name = 'nro_cuenta') THEN
    EXECUTE 'ALTER TABLE %[1]s ALTER COLUMN nro_cuenta DROP NOT NULL';
  END IF;
END $$`, t),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%[1]s_nro_historia ON %[1]s (nro_historia)", t),
		)
	}

	var observaciones []string
	for _, c := range observacionesColumns {
		observaciones = append(observaciones,
			fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS observaciones %s", c.table, c.colType))
	}

	raiz := []string{`CREATE TABLE IF NOT EXISTS raiz (
    id                      INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    odontograma_version_id  INTEGER NOT NULL REFERENCES odontograma_version(id) ON DELETE CASCADE,
    numero_diente           SMALLINT NOT NULL,
    CONSTRAINT uq_raiz UNIQUE (odontograma_version_id, numero_diente)
)`}
	for _, col := range raizColumns {
		raiz = append(raiz, "ALTER TABLE raiz ADD COLUMN IF NOT EXISTS "+col)
	}
	raiz = append(raiz, "CREATE INDEX IF NOT EXISTS ix_raiz_version ON raiz (odontograma_version_id)")

	return []Guard{
		{Name: "nro_historia", Statements: historia},
		{Name: "observaciones", Statements: observaciones},
		{Name: "raiz", Statements: raiz},
		{Name: "diente_codigo_fk", Statements: []string{
			"ALTER TABLE diente_codigo DROP CONSTRAINT IF EXISTS fk_diente_codigo_procedimiento",
		}},
	}
}

// RunGuards applies every guard to schema, each in its own transaction. A
// failing guard is logged and reported but does not stop the others.
func RunGuards(ctx context.Context, pool *pgxpool.Pool, schema string, logger zerolog.Logger) []GuardResult {
	guards := Guards()
	results := make([]GuardResult, 0, len(guards))
	for _, g := range guards {
		err := runGuard(ctx, pool, schema, g)
		if err != nil {
			logger.Warn().Err(err).Str("guard", g.Name).Str("schema", schema).Msg("schema guard failed")
		} else {
			logger.Debug().Str("guard", g.Name).Str("schema", schema).Msg("schema guard applied")
		}
		results = append(results, GuardResult{Name: g.Name, Err: err})
	}
	return results
}

func runGuard(ctx context.Context, pool *pgxpool.Pool, schema string, g Guard) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL search_path TO %s, public", schema)); err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}
	for _, stmt := range g.Statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", g.Name, err)
		}
	}
	return tx.Commit(ctx)
}
