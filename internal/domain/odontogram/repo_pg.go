package odontogram

import (
	"context"
	"errors"

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

const odontogramCols = `id, nro_historia, version, fecha_visita, tipo_visita, observaciones, activo,
	metadata, fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`

func (r *repoPG) Create(ctx context.Context, o *Odontogram) (int, error) {
	var versionID int
	err := db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		err := q.QueryRow(ctx, `
			INSERT INTO odontograma (nro_historia, fecha_visita, tipo_visita, observaciones, usuario_creacion, metadata)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, version, activo, fecha_creacion`,
			o.NroHistoria, o.FechaVisita, o.TipoVisita, o.Observaciones, o.UsuarioCreacion, o.Metadata,
		).Scan(&o.ID, &o.Version, &o.Activo, &o.FechaCreacion)
		if err != nil {
			return err
		}
		return q.QueryRow(ctx, `
			INSERT INTO odontograma_version (odontograma_id, version_number, usuario_creacion)
			VALUES ($1, 1, $2)
			RETURNING id`,
			o.ID, o.UsuarioCreacion,
		).Scan(&versionID)
	})
	return versionID, err
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Odontogram, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+odontogramCols+` FROM odontograma WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	o, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Odontogram])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("odontograma")
	}
	return o, err
}

func (r *repoPG) ListByHistoria(ctx context.Context, nroHistoria string) ([]*Odontogram, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+odontogramCols+`
		FROM odontograma WHERE nro_historia = $1
		ORDER BY fecha_creacion DESC, id DESC`, nroHistoria)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Odontogram])
}

func (r *repoPG) ListSummaries(ctx context.Context, nroHistoria string) ([]*Summary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, nro_historia, activo, fecha_creacion
		FROM odontograma WHERE nro_historia = $1
		ORDER BY fecha_creacion DESC, id DESC`, nroHistoria)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Summary])
}

func (r *repoPG) Historico(ctx context.Context, nroHistoria string) ([]*HistoricoRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT o.id, o.nro_historia, o.version, o.fecha_visita, o.tipo_visita, o.observaciones,
			o.fecha_creacion, o.usuario_creacion,
			(SELECT COUNT(*) FROM odontograma_version v WHERE v.odontograma_id = o.id)::int AS versiones
		FROM odontograma o
		WHERE o.nro_historia = $1
		ORDER BY o.fecha_creacion DESC, o.id DESC`, nroHistoria)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[HistoricoRow])
	if err != nil {
		return nil, err
	}
	for _, h := range out {
		h.Correlativo = Correlativo(h.ID)
	}
	return out, nil
}

func (r *repoPG) ListVersionRefs(ctx context.Context, odontogramID int) ([]*VersionRef, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, version_number, fecha_creacion, usuario_creacion
		FROM odontograma_version WHERE odontograma_id = $1
		ORDER BY version_number DESC`, odontogramID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[VersionRef])
}

func (r *repoPG) LatestVersionID(ctx context.Context, odontogramID int) (*int, error) {
	var id int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id FROM odontograma_version WHERE odontograma_id = $1
		ORDER BY version_number DESC, id DESC LIMIT 1`, odontogramID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *repoPG) UpdateObservaciones(ctx context.Context, id int, observaciones, usuario *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE odontograma SET observaciones = $2, fecha_modificacion = NOW(), usuario_modificacion = $3
		WHERE id = $1`, id, observaciones, usuario)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("odontograma")
	}
	return nil
}

func (r *repoPG) FindPaciente(ctx context.Context, nroHistoria string) (*Paciente, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id_paciente, nro_historia_clinica, nro_documento,
			TRIM(CONCAT_WS(' ', NULLIF(apellido_paterno, ''), NULLIF(apellido_materno, ''),
				NULLIF(primer_nombre, ''), NULLIF(segundo_nombre, ''))) AS nombres_paciente
		FROM pacientes WHERE nro_historia_clinica = $1
		LIMIT 1`, nroHistoria)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Paciente])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}
