package odontogram

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/internal/platform/db"
)

const (
	dienteCols = `id, odontograma_id, nro_historia, numero_diente, estado,
	fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`

	areaCols = `id, odontograma_id, nro_historia, numero_diente, area, estado, color, observaciones,
	fecha_creacion, usuario_creacion, fecha_modificacion, usuario_modificacion`

	codigoCols = `id, odontograma_id, nro_historia, numero_diente, codigo, descripcion, color,
	fecha_creacion, usuario_creacion`

	transposicionCols = `id, odontograma_id, nro_historia, diente_from, diente_to, color, observaciones,
	fecha_creacion, usuario_creacion`

	diastemaCols = `id, odontograma_id, nro_historia, diente_left, diente_right, tamano, observaciones,
	fecha_creacion, usuario_creacion`

	protesisCols = `id, odontograma_id, nro_historia, tipo, sub_tipo, posicion, color, observaciones,
	metadata, fecha_creacion, usuario_creacion`
)

func (r *repoPG) MarkExtraction(ctx context.Context, d *Diente) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diente (odontograma_id, nro_historia, numero_diente, estado, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (odontograma_id, numero_diente) DO UPDATE
		SET estado = EXCLUDED.estado,
			fecha_modificacion = NOW(),
			usuario_modificacion = EXCLUDED.usuario_creacion
		RETURNING id, fecha_creacion`,
		d.OdontogramID, d.NroHistoria, d.NumeroDiente, d.Estado, d.Usuario,
	).Scan(&d.ID, &d.FechaCreacion)
}

func (r *repoPG) UpsertArea(ctx context.Context, a *DienteArea) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diente_area (odontograma_id, nro_historia, numero_diente, area, estado, color, observaciones, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (odontograma_id, numero_diente, area) DO UPDATE
		SET estado = EXCLUDED.estado,
			color = EXCLUDED.color,
			observaciones = EXCLUDED.observaciones,
			fecha_modificacion = NOW(),
			usuario_modificacion = EXCLUDED.usuario_creacion
		RETURNING id, fecha_creacion`,
		a.OdontogramID, a.NroHistoria, a.NumeroDiente, a.Area, a.Estado, a.Color, a.Observaciones, a.Usuario,
	).Scan(&a.ID, &a.FechaCreacion)
}

func (r *repoPG) AddCodigo(ctx context.Context, c *DienteCodigo) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diente_codigo (odontograma_id, nro_historia, numero_diente, codigo, descripcion, color, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, fecha_creacion`,
		c.OdontogramID, c.NroHistoria, c.NumeroDiente, c.Codigo, c.Descripcion, c.Color, c.Usuario,
	).Scan(&c.ID, &c.FechaCreacion)
}

func (r *repoPG) CreateTransposicion(ctx context.Context, t *Transposicion) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO transposicion (odontograma_id, nro_historia, diente_from, diente_to, color, observaciones, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, fecha_creacion`,
		t.OdontogramID, t.NroHistoria, t.DienteFrom, t.DienteTo, t.Color, t.Observaciones, t.Usuario,
	).Scan(&t.ID, &t.FechaCreacion)
}

func (r *repoPG) ListTransposiciones(ctx context.Context, odontogramID int) ([]*Transposicion, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+transposicionCols+`
		FROM transposicion WHERE odontograma_id = $1 ORDER BY id`, odontogramID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Transposicion])
}

func (r *repoPG) DeleteTransposicion(ctx context.Context, odontogramID, id int) error {
	return r.deleteScoped(ctx, "transposicion", odontogramID, id)
}

func (r *repoPG) CreateDiastema(ctx context.Context, d *Diastema) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diastema (odontograma_id, nro_historia, diente_left, diente_right, tamano, observaciones, usuario_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, fecha_creacion`,
		d.OdontogramID, d.NroHistoria, d.DienteLeft, d.DienteRight, d.Tamano, d.Observaciones, d.Usuario,
	).Scan(&d.ID, &d.FechaCreacion)
}

func (r *repoPG) ListDiastemas(ctx context.Context, odontogramID int) ([]*Diastema, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+diastemaCols+`
		FROM diastema WHERE odontograma_id = $1 ORDER BY id`, odontogramID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Diastema])
}

func (r *repoPG) DeleteDiastema(ctx context.Context, odontogramID, id int) error {
	return r.deleteScoped(ctx, "diastema", odontogramID, id)
}

func (r *repoPG) CreateProtesis(ctx context.Context, p *Protesis) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		err := q.QueryRow(ctx, `
			INSERT INTO protesis (odontograma_id, nro_historia, tipo, sub_tipo, posicion, color, observaciones, metadata, usuario_creacion)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, fecha_creacion`,
			p.OdontogramID, p.NroHistoria, p.Tipo, p.SubTipo, p.Posicion, p.Color, p.Observaciones, p.Metadata, p.Usuario,
		).Scan(&p.ID, &p.FechaCreacion)
		if err != nil {
			return err
		}
		for _, n := range p.Dientes {
			if _, err := q.Exec(ctx, `
				INSERT INTO protesis_diente (protesis_id, numero_diente) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, p.ID, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repoPG) DeleteProtesis(ctx context.Context, odontogramID, id int) error {
	return r.deleteScoped(ctx, "protesis", odontogramID, id)
}

// deleteScoped removes row id from table only when it belongs to odontogramID.
// table is one of the constants above, never request input.
func (r *repoPG) deleteScoped(ctx context.Context, table string, odontogramID, id int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM `+table+` WHERE id = $1 AND odontograma_id = $2`, id, odontogramID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(table)
	}
	return nil
}

type protesisTooth struct {
	ProtesisID   int `db:"protesis_id"`
	NumeroDiente int `db:"numero_diente"`
}

// LoadChart reads every base finding of an odontogram in one round trip.
func (r *repoPG) LoadChart(ctx context.Context, odontogramID int) (*Chart, error) {
	b := &pgx.Batch{}
	b.Queue(`SELECT `+dienteCols+` FROM diente WHERE odontograma_id = $1 ORDER BY numero_diente`, odontogramID)
	b.Queue(`SELECT `+areaCols+` FROM diente_area WHERE odontograma_id = $1 ORDER BY numero_diente, area`, odontogramID)
	b.Queue(`SELECT `+codigoCols+` FROM diente_codigo WHERE odontograma_id = $1 ORDER BY id`, odontogramID)
	b.Queue(`SELECT `+protesisCols+` FROM protesis WHERE odontograma_id = $1 ORDER BY id`, odontogramID)
	b.Queue(`SELECT pd.protesis_id, pd.numero_diente
		FROM protesis_diente pd JOIN protesis p ON p.id = pd.protesis_id
		WHERE p.odontograma_id = $1 ORDER BY pd.protesis_id, pd.numero_diente`, odontogramID)
	b.Queue(`SELECT `+transposicionCols+` FROM transposicion WHERE odontograma_id = $1 ORDER BY id`, odontogramID)
	b.Queue(`SELECT `+diastemaCols+` FROM diastema WHERE odontograma_id = $1 ORDER BY id`, odontogramID)

	br := r.conn(ctx).SendBatch(ctx, b)
	defer br.Close()

	var (
		chart Chart
		teeth []*protesisTooth
		err   error
	)
	if chart.Dientes, err = collect[Diente](br); err != nil {
		return nil, err
	}
	if chart.Areas, err = collect[DienteArea](br); err != nil {
		return nil, err
	}
	if chart.Codigos, err = collect[DienteCodigo](br); err != nil {
		return nil, err
	}
	if chart.Protesis, err = collect[Protesis](br); err != nil {
		return nil, err
	}
	if teeth, err = collect[protesisTooth](br); err != nil {
		return nil, err
	}
	if chart.Transposiciones, err = collect[Transposicion](br); err != nil {
		return nil, err
	}
	if chart.Diastemas, err = collect[Diastema](br); err != nil {
		return nil, err
	}

	byID := make(map[int]*Protesis, len(chart.Protesis))
	for _, p := range chart.Protesis {
		byID[p.ID] = p
	}
	for _, t := range teeth {
		if p, ok := byID[t.ProtesisID]; ok {
			p.Dientes = append(p.Dientes, t.NumeroDiente)
		}
	}
	return &chart, nil
}

func collect[T any](br pgx.BatchResults) ([]*T, error) {
	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
}
