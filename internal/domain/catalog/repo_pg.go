package catalog

import (
	"context"
	"strings"

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

// Search pages each source on its own, so a term that saturates one
// catalogue still returns matches from the others.
func (r *repoPG) Search(ctx context.Context, q string, limit, offset int) ([]*Codigo, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT codigo, descripcion, categoria, color_default, activo FROM (
			(SELECT f.codigo, f.nombre AS descripcion, NULL::text AS categoria,
				NULL::text AS color_default, TRUE AS activo, 1 AS fuente
			FROM fact_catalogo_servicios f
			WHERE f.codigo ILIKE $1 OR f.nombre ILIKE $1
			ORDER BY f.codigo
			LIMIT $2 OFFSET $3)
			UNION ALL
			(SELECT d.codigo_cie2004, d.descripcion, NULL, NULL, TRUE, 2
			FROM diagnosticos d
			WHERE d.codigo_cie2004 ILIKE $1 OR d.descripcion ILIKE $1
			ORDER BY d.codigo_cie2004
			LIMIT $2 OFFSET $3)
			UNION ALL
			(SELECT p.codigo, p.descripcion, p.categoria, p.color_default, p.activo, 3
			FROM catalogo_procedimiento p
			WHERE p.codigo ILIKE $1 OR p.descripcion ILIKE $1
			ORDER BY p.codigo
			LIMIT $2 OFFSET $3)
		) m
		ORDER BY fuente, codigo`, "%"+escapeLike(q)+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Codigo])
}

func (r *repoPG) Browse(ctx context.Context, limit, offset int) ([]*Codigo, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT codigo, nombre AS descripcion, NULL::text AS categoria,
			NULL::text AS color_default, TRUE AS activo
		FROM fact_catalogo_servicios
		ORDER BY codigo
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Codigo])
}

func (r *repoPG) Upsert(ctx context.Context, c *Codigo) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO catalogo_procedimiento (codigo, descripcion, categoria, color_default)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (codigo) DO UPDATE
		SET descripcion = EXCLUDED.descripcion,
			categoria = EXCLUDED.categoria,
			color_default = EXCLUDED.color_default`,
		c.Codigo, c.Descripcion, c.Categoria, c.ColorDefault)
	return err
}

// escapeLike quotes the LIKE wildcards in a user search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
