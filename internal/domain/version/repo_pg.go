package version

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/domain/finding"
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

const versionCols = `id, odontograma_id, version_number, parent_version_id, locked, metadata,
	fecha_creacion, usuario_creacion, fecha_bloqueo, usuario_bloqueo`

const snapshotCols = `odontograma_version_id, data, metadata,
	fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`

const raizCols = `id, odontograma_version_id, numero_diente, configuracion,
	triangulo1_activo, triangulo2_activo, triangulo3_activo, activo, metadata,
	fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`

func (r *repoPG) Create(ctx context.Context, v *Version) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)

		// Serializes numbering per odontogram.
		var id int
		err := q.QueryRow(ctx, `SELECT id FROM odontograma WHERE id = $1 FOR UPDATE`, v.OdontogramID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("odontograma")
		}
		if err != nil {
			return err
		}

		if v.ParentVersionID != nil {
			var ok bool
			err := q.QueryRow(ctx, `SELECT EXISTS (
				SELECT 1 FROM odontograma_version WHERE id = $1 AND odontograma_id = $2)`,
				*v.ParentVersionID, v.OdontogramID).Scan(&ok)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Validation("parentVersionId %d does not belong to odontograma %d",
					*v.ParentVersionID, v.OdontogramID)
			}
		}

		return q.QueryRow(ctx, `
			INSERT INTO odontograma_version (odontograma_id, version_number, parent_version_id, metadata, usuario_creacion)
			SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, $4
			FROM odontograma_version WHERE odontograma_id = $1
			RETURNING id, version_number, locked, fecha_creacion`,
			v.OdontogramID, v.ParentVersionID, v.Metadata, v.UsuarioCreacion,
		).Scan(&v.ID, &v.VersionNumber, &v.Locked, &v.FechaCreacion)
	})
}

// RunWritable holds FOR SHARE on the version row until fn commits. Lock's
// UPDATE waits on that row lock, and a check queued behind a committed Lock
// reads locked = true.
func (r *repoPG) RunWritable(ctx context.Context, id int, fn func(ctx context.Context) error) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		var locked bool
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT locked FROM odontograma_version WHERE id = $1 FOR SHARE`, id).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("odontograma_version")
		}
		if err != nil {
			return err
		}
		if locked {
			return apperr.Locked(id)
		}
		return fn(ctx)
	})
}

func collectVersion(rows pgx.Rows) (*Version, error) {
	v, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Version])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("odontograma_version")
	}
	return v, err
}

func (r *repoPG) ListByOdontogram(ctx context.Context, odontogramID int) ([]*Version, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+versionCols+`
		FROM odontograma_version WHERE odontograma_id = $1
		ORDER BY version_number DESC`, odontogramID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Version])
}

func (r *repoPG) Lock(ctx context.Context, id int, usuario *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE odontograma_version
		SET locked = TRUE,
			fecha_bloqueo = COALESCE(fecha_bloqueo, NOW()),
			usuario_bloqueo = COALESCE(usuario_bloqueo, $2)
		WHERE id = $1`, id, usuario)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("odontograma_version")
	}
	return nil
}

func (r *repoPG) UpsertSnapshot(ctx context.Context, s *Snapshot) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO odontograma_version_snapshot (odontograma_version_id, data, metadata, usuario_creacion)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (odontograma_version_id) DO UPDATE
		SET data = EXCLUDED.data,
			metadata = EXCLUDED.metadata,
			fecha_modificacion = NOW(),
			usuario_modificacion = EXCLUDED.usuario_creacion
		RETURNING fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`,
		s.VersionID, s.Data, s.Metadata, s.UsuarioCreacion,
	).Scan(&s.FechaCreacion, &s.UsuarioCreacion, &s.FechaModificacion, &s.UsuarioModificacion)
}

func (r *repoPG) GetSnapshot(ctx context.Context, versionID int) (*Snapshot, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+snapshotCols+`
		FROM odontograma_version_snapshot WHERE odontograma_version_id = $1`, versionID)
	if err != nil {
		return nil, err
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Snapshot])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("snapshot")
	}
	return s, err
}

func (r *repoPG) UpsertRaiz(ctx context.Context, rz *Raiz) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO raiz (odontograma_version_id, numero_diente, configuracion,
			triangulo1_activo, triangulo2_activo, triangulo3_activo, metadata, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (odontograma_version_id, numero_diente) DO UPDATE
		SET configuracion = EXCLUDED.configuracion,
			triangulo1_activo = EXCLUDED.triangulo1_activo,
			triangulo2_activo = EXCLUDED.triangulo2_activo,
			triangulo3_activo = EXCLUDED.triangulo3_activo,
			metadata = EXCLUDED.metadata,
			activo = TRUE,
			fecha_modificacion = NOW(),
			usuario_modificacion = EXCLUDED.usuario_creacion
		RETURNING id, activo, fecha_creacion`,
		rz.VersionID, rz.NumeroDiente, rz.Configuracion,
		rz.Triangulo1Activo, rz.Triangulo2Activo, rz.Triangulo3Activo, rz.Metadata, rz.Usuario,
	).Scan(&rz.ID, &rz.Activo, &rz.FechaCreacion)
}

const listRaicesSQL = `SELECT ` + raizCols + `
	FROM raiz WHERE odontograma_version_id = $1 ORDER BY numero_diente`

func (r *repoPG) ListRaices(ctx context.Context, versionID int) ([]*Raiz, error) {
	rows, err := r.conn(ctx).Query(ctx, listRaicesSQL, versionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Raiz])
}

func (r *repoPG) DeleteRaiz(ctx context.Context, versionID, id int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM raiz WHERE id = $1 AND odontograma_version_id = $2`, id, versionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("raiz")
	}
	return nil
}

// LoadFull reads the version row, every finding list, the version audit
// trail and the roots in a single batch.
func (r *repoPG) LoadFull(ctx context.Context, versionID int) (*Full, error) {
	b := &pgx.Batch{}
	b.Queue(`SELECT `+versionCols+` FROM odontograma_version WHERE id = $1`, versionID)
	readFindings := finding.QueueLoad(b, versionID)
	readAudit := audit.QueueListByVersion(b, versionID)
	b.Queue(listRaicesSQL, versionID)

	br := r.conn(ctx).SendBatch(ctx, b)
	defer br.Close()

	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	full := &Full{}
	if full.Version, err = collectVersion(rows); err != nil {
		return nil, err
	}
	if full.Findings, err = readFindings(br); err != nil {
		return nil, err
	}
	if full.Audit, err = readAudit(br); err != nil {
		return nil, err
	}
	if rows, err = br.Query(); err != nil {
		return nil, err
	}
	if full.Raices, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Raiz]); err != nil {
		return nil, err
	}
	return full, nil
}
