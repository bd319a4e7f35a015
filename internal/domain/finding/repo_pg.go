package finding

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odontograma/odontograma/internal/platform/apperr"
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
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// Table and column names below come from the kind registry, never from
// request input.

func selectSQL(k Kind) string {
	return `SELECT id, odontograma_version_id, ` + strings.Join(k.Columns(), ", ") +
		`, metadata, fecha_creacion, usuario_creacion FROM ` + k.Table() +
		` WHERE odontograma_version_id = $1 ORDER BY id`
}

func insertSQL(k Kind) string {
	cols := append([]string{"odontograma_version_id"}, k.Columns()...)
	cols = append(cols, "metadata", "usuario_creacion")
	params := make([]string, len(cols))
	for i := range cols {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return `INSERT INTO ` + k.Table() + ` (` + strings.Join(cols, ", ") + `)
		VALUES (` + strings.Join(params, ", ") + `)
		RETURNING id, fecha_creacion`
}

func teethSQL(k Kind, c *childTable) string {
	return `SELECT c.` + c.fk + ` AS owner_id, c.numero_diente, c.` + c.column + `
		FROM ` + c.table + ` c JOIN ` + k.Table() + ` p ON p.id = c.` + c.fk + `
		WHERE p.odontograma_version_id = $1 ORDER BY c.` + c.fk + `, c.numero_diente`
}

func (r *repoPG) Insert(ctx context.Context, k Kind, f Finding) error {
	b := f.base()
	args := append([]interface{}{b.VersionID}, f.values()...)
	args = append(args, b.Metadata, b.Usuario)

	c := k.child()
	comp, ok := f.(composite)
	if c == nil || !ok {
		return r.conn(ctx).QueryRow(ctx, insertSQL(k), args...).Scan(&b.ID, &b.FechaCreacion)
	}

	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		if err := q.QueryRow(ctx, insertSQL(k), args...).Scan(&b.ID, &b.FechaCreacion); err != nil {
			return err
		}
		for _, t := range comp.teeth() {
			if _, err := q.Exec(ctx,
				`INSERT INTO `+c.table+` (`+c.fk+`, numero_diente, `+c.column+`) VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING`,
				b.ID, t.Numero, t.attr(c.column)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) Delete(ctx context.Context, k Kind, versionID, id int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM `+k.Table()+` WHERE id = $1 AND odontograma_version_id = $2`, id, versionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(k.Table())
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, k Kind, versionID int) ([]Finding, error) {
	b := &pgx.Batch{}
	read := queueKind(b, k, versionID)
	br := r.conn(ctx).SendBatch(ctx, b)
	defer br.Close()
	return read(br)
}

func (r *repoPG) LoadAll(ctx context.Context, versionID int) (Set, error) {
	b := &pgx.Batch{}
	read := QueueLoad(b, versionID)
	br := r.conn(ctx).SendBatch(ctx, b)
	defer br.Close()
	return read(br)
}

// QueueLoad queues the list queries of every kind on b so callers can fold
// them into a larger batch. The returned func must be called with the batch
// results positioned at the first of these queries.
func QueueLoad(b *pgx.Batch, versionID int) func(pgx.BatchResults) (Set, error) {
	readers := make([]func(pgx.BatchResults) ([]Finding, error), len(kinds))
	for i, k := range kinds {
		readers[i] = queueKind(b, k, versionID)
	}
	return func(br pgx.BatchResults) (Set, error) {
		set := make(Set, len(kinds))
		for i, k := range kinds {
			items, err := readers[i](br)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", k.Table(), err)
			}
			set[k.Key()] = items
		}
		return set, nil
	}
}

func queueKind(b *pgx.Batch, k Kind, versionID int) func(pgx.BatchResults) ([]Finding, error) {
	b.Queue(selectSQL(k), versionID)
	c := k.child()
	if c != nil {
		b.Queue(teethSQL(k, c), versionID)
	}

	return func(br pgx.BatchResults) ([]Finding, error) {
		rows, err := br.Query()
		if err != nil {
			return nil, err
		}
		items, err := k.collect(rows)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return items, nil
		}

		rows, err = br.Query()
		if err != nil {
			return nil, err
		}
		teeth, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[ToothRef])
		if err != nil {
			return nil, err
		}
		attachTeeth(items, teeth)
		return items, nil
	}
}

func attachTeeth(items []Finding, teeth []*ToothRef) {
	byID := make(map[int]composite, len(items))
	for _, it := range items {
		if comp, ok := it.(composite); ok {
			comp.setTeeth([]ToothRef{})
			byID[it.base().ID] = comp
		}
	}
	for _, t := range teeth {
		if comp, ok := byID[t.OwnerID]; ok {
			comp.setTeeth(append(comp.teeth(), *t))
		}
	}
}
