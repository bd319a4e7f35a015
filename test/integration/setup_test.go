//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/domain/catalog"
	"github.com/odontograma/odontograma/internal/domain/finding"
	"github.com/odontograma/odontograma/internal/domain/odontogram"
	"github.com/odontograma/odontograma/internal/domain/requerimiento"
	"github.com/odontograma/odontograma/internal/domain/version"
	"github.com/odontograma/odontograma/internal/platform/db"
	"github.com/odontograma/odontograma/migrations"
)

// testDB holds the shared database infrastructure for integration tests.
type testDB struct {
	Pool    *pgxpool.Pool
	ConnStr string
}

// globalDB is the package-level test database, initialized once in TestMain.
var globalDB *testDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	tdb, cleanup, err := setupPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup postgres: %v\n", err)
		os.Exit(1)
	}

	globalDB = tdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

// setupPostgres connects to TEST_DATABASE_URL when set, otherwise starts a
// throwaway postgres:16-alpine container.
func setupPostgres(ctx context.Context) (*testDB, func(), error) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	cleanup := func() {}
	if connStr == "" {
		var err error
		connStr, cleanup, err = startWithTestcontainers(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("start postgres container: %w", err)
		}
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		cleanup()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return &testDB{Pool: pool, ConnStr: connStr}, func() {
		pool.Close()
		cleanup()
	}, nil
}

// createTenantSchema creates a tenant schema, runs all migrations and the
// schema guards.
func createTenantSchema(t *testing.T, ctx context.Context, tenantID string) {
	t.Helper()
	if err := db.CreateTenantSchema(ctx, globalDB.Pool, tenantID, migrations.FS); err != nil {
		t.Fatalf("create tenant schema %s: %v", tenantID, err)
	}
	for _, r := range db.RunGuards(ctx, globalDB.Pool, db.SchemaFor(tenantID), zerolog.Nop()) {
		if r.Err != nil {
			t.Fatalf("guard %s on %s: %v", r.Name, tenantID, r.Err)
		}
	}
}

// dropTenantSchema drops a tenant schema for cleanup.
func dropTenantSchema(t *testing.T, ctx context.Context, tenantID string) {
	t.Helper()
	schema := db.SchemaFor(tenantID)
	_, err := globalDB.Pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
	if err != nil {
		t.Logf("warning: failed to drop schema %s: %v", schema, err)
	}
}

// withTenantConn acquires a connection, sets the search path to the tenant schema,
// and passes it to the callback. The connection is released after the callback.
func withTenantConn(ctx context.Context, pool *pgxpool.Pool, tenantID string, fn func(ctx context.Context) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", db.SchemaFor(tenantID)))
	if err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}

	// Put the connection into context so repos can find it
	ctx = context.WithValue(ctx, db.DBConnKey, conn)
	ctx = context.WithValue(ctx, db.TenantIDKey, tenantID)
	return fn(ctx)
}

// uniqueTenantID generates a unique tenant ID for test isolation.
func uniqueTenantID(prefix string) string {
	short := strings.ReplaceAll(uuid.New().String()[:8], "-", "")
	return fmt.Sprintf("%s_%s", prefix, short)
}

// services wires the domain services the way the server does.
type services struct {
	recorder   *audit.Recorder
	odontogram *odontogram.Service
	version    *version.Service
	finding    *finding.Service
	catalog    *catalog.Service
	requerim   *requerimiento.Service
}

func newServices(pool *pgxpool.Pool, archive version.Archiver) *services {
	recorder := audit.NewRecorder(audit.NewRepo(pool), zerolog.Nop())
	versionSvc := version.NewService(version.NewRepo(pool), recorder, archive)
	return &services{
		recorder:   recorder,
		odontogram: odontogram.NewService(odontogram.NewRepo(pool), recorder),
		version:    versionSvc,
		finding:    finding.NewService(finding.NewRepo(pool), versionSvc, recorder),
		catalog:    catalog.NewService(catalog.NewRepo(pool)),
		requerim:   requerimiento.NewService(requerimiento.NewRepo(pool)),
	}
}

// createTestOdontogram stores a header for nroHistoria and returns it with
// the id of its first version.
func createTestOdontogram(t *testing.T, ctx context.Context, svc *services, nroHistoria string) (*odontogram.Odontogram, int) {
	t.Helper()
	usuario := "integration"
	o, versionID, err := svc.odontogram.CreateOdontogram(ctx, &odontogram.CreateRequest{
		NroHistoria: &nroHistoria,
		Usuario:     &usuario,
	})
	if err != nil {
		t.Fatalf("create odontogram: %v", err)
	}
	return o, versionID
}

func strPtr(s string) *string { return &s }
