package audit

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odontograma/odontograma/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Services record audit rows after their transaction has returned, so in
// practice this resolves to the tenant connection.
func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const entryCols = `id, odontograma_id, nro_historia, accion, detalle, usuario, fecha`

const versionEntryCols = `id, odontograma_version_id, entidad, accion, clave, detalle, usuario, fecha`

func (r *repoPG) Insert(ctx context.Context, e *Entry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO odontograma_audit (odontograma_id, nro_historia, accion, detalle, usuario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fecha`,
		e.OdontogramID, e.NroHistoria, e.Action, e.Detail, e.User,
	).Scan(&e.ID, &e.Fecha)
}

func (r *repoPG) InsertVersion(ctx context.Context, e *VersionEntry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO odontograma_version_audit (odontograma_version_id, entidad, accion, clave, detalle, usuario)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, fecha`,
		e.VersionID, e.Entity, e.Action, e.Key, e.Detail, e.User,
	).Scan(&e.ID, &e.Fecha)
}

func (r *repoPG) ListByOdontogram(ctx context.Context, odontogramID int) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+entryCols+`
		FROM odontograma_audit WHERE odontograma_id = $1
		ORDER BY fecha DESC, id DESC`, odontogramID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Entry])
}

const listVersionSQL = `SELECT ` + versionEntryCols + `
	FROM odontograma_version_audit WHERE odontograma_version_id = $1
	ORDER BY fecha DESC, id DESC`

func (r *repoPG) ListByVersion(ctx context.Context, versionID int) ([]*VersionEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, listVersionSQL, versionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[VersionEntry])
}

// QueueListByVersion queues the version trail query on b for callers that
// load a version in one round trip.
func QueueListByVersion(b *pgx.Batch, versionID int) func(pgx.BatchResults) ([]*VersionEntry, error) {
	b.Queue(listVersionSQL, versionID)
	return func(br pgx.BatchResults) ([]*VersionEntry, error) {
		rows, err := br.Query()
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[VersionEntry])
	}
}
