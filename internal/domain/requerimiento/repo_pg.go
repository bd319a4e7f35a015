package requerimiento

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *repoPG) Get(ctx context.Context, correlativo string, nroCuenta int) (*Requerimiento, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, id_correlativo, nro_cuenta, medico, nombres_paciente, edad,
			historia_clinica, fecha_salida, to_char(hora, 'HH24:MI') AS hora,
			servicio, fecha_creacion, usuario_creacion
		FROM requerimiento_biologico
		WHERE id_correlativo = $1 AND nro_cuenta = $2
		ORDER BY id
		LIMIT 1`, correlativo, nroCuenta)
	if err != nil {
		return nil, err
	}
	req, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[Requerimiento])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("requerimiento")
	}
	return req, err
}

func (r *repoPG) ListOpciones(ctx context.Context, id int) ([]*Opcion, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT funcion, opcion
		FROM detalle_funcion_biologica
		WHERE requerimiento_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Opcion])
}
