package finding

import (
	"github.com/jackc/pgx/v5"

	"github.com/odontograma/odontograma/internal/platform/apperr"
)

// Kind describes how one finding type is routed, stored and audited.
type Kind interface {
	// Path is the URL segment under /version/:versionId.
	Path() string
	Table() string
	// Entity is the name written to the version audit trail.
	Entity() string
	// Key is the property holding this kind in the full version view.
	Key() string
	// Columns are the kind's own columns, in values() order.
	Columns() []string
	New() Finding

	collect(rows pgx.Rows) ([]Finding, error)
	child() *childTable
	// check rejects values that do not fit the kind's columns.
	check(f Finding) error
}

// bound is a column's storage limit: characters for text,
// NUMERIC(precision, scale) for decimals.
type bound struct {
	chars     int
	precision int
	scale     int
}

func chars(n int) bound { return bound{chars: n} }

func numeric(precision, scale int) bound { return bound{precision: precision, scale: scale} }

// columnBounds are the widths shared by most finding tables. A kind whose
// table differs overrides them with bounded.
var columnBounds = map[string]bound{
	"tipo":            chars(30),
	"tipo_codigo":     chars(50),
	"sub_tipo":        chars(100),
	"severidad":       chars(30),
	"direccion":       chars(10),
	"posicion":        chars(10),
	"estado":          chars(50),
	"material":        chars(50),
	"material_codigo": chars(50),
	"areas":           chars(200),
	"sistema":         chars(50),
	"estilo":          chars(30),
	"categoria":       chars(50),
	"color":           chars(apperr.ColorLen),
	"observaciones":   chars(500),
	"rol":             chars(30),
	"elemento":        chars(50),
	"progreso_pct":    numeric(5, 2),
	"magnitud_mm":     numeric(5, 2),
	"grosor":          numeric(5, 2),
	"diametro_mm":     numeric(4, 2),
	"longitud_mm":     numeric(4, 1),
	"origen_x":        numeric(10, 2),
	"origen_y":        numeric(10, 2),
	"destino_x":       numeric(10, 2),
	"destino_y":       numeric(10, 2),
	"pos_x":           numeric(10, 2),
	"pos_y":           numeric(10, 2),
}

// childTable is the join table holding the teeth of a composite finding.
type childTable struct {
	table  string
	fk     string
	column string // rol or elemento
}

type kind[T any, PT interface {
	*T
	Finding
}] struct {
	path    string
	table   string
	entity  string
	key     string
	columns []string
	teeth   *childTable
	bounds  map[string]bound
}

func newKind[T any, PT interface {
	*T
	Finding
}](path, table, entity, key string, columns ...string) *kind[T, PT] {
	return &kind[T, PT]{path: path, table: table, entity: entity, key: key, columns: columns}
}

func (k *kind[T, PT]) withTeeth(table, fk, column string) *kind[T, PT] {
	k.teeth = &childTable{table: table, fk: fk, column: column}
	return k
}

// bounded overrides the shared bound of column for this kind's table.
func (k *kind[T, PT]) bounded(column string, b bound) *kind[T, PT] {
	if k.bounds == nil {
		k.bounds = map[string]bound{}
	}
	k.bounds[column] = b
	return k
}

func (k *kind[T, PT]) boundOf(column string) (bound, bool) {
	if b, ok := k.bounds[column]; ok {
		return b, true
	}
	b, ok := columnBounds[column]
	return b, ok
}

func (k *kind[T, PT]) check(f Finding) error {
	if err := apperr.MaxLen("usuario", f.base().Usuario, apperr.UsuarioLen); err != nil {
		return err
	}
	for i, v := range f.values() {
		b, ok := k.boundOf(k.columns[i])
		if !ok {
			continue
		}
		if err := b.check(k.columns[i], v); err != nil {
			return err
		}
	}
	if comp, ok := f.(composite); ok && k.teeth != nil {
		b, _ := k.boundOf(k.teeth.column)
		for _, t := range comp.teeth() {
			if err := b.check(k.teeth.column, t.attr(k.teeth.column)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b bound) check(column string, v interface{}) error {
	switch x := v.(type) {
	case string:
		if b.chars > 0 {
			return apperr.MaxLen(column, &x, b.chars)
		}
	case *string:
		if b.chars > 0 {
			return apperr.MaxLen(column, x, b.chars)
		}
	case *float64:
		if b.precision > 0 {
			return apperr.Numeric(column, x, b.precision, b.scale)
		}
	}
	return nil
}

func (k *kind[T, PT]) Path() string       { return k.path }
func (k *kind[T, PT]) Table() string      { return k.table }
func (k *kind[T, PT]) Entity() string     { return k.entity }
func (k *kind[T, PT]) Key() string        { return k.key }
func (k *kind[T, PT]) Columns() []string  { return k.columns }
func (k *kind[T, PT]) New() Finding       { return PT(new(T)) }
func (k *kind[T, PT]) child() *childTable { return k.teeth }

func (k *kind[T, PT]) collect(rows pgx.Rows) ([]Finding, error) {
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, err
	}
	out := make([]Finding, len(items))
	for i, it := range items {
		out[i] = PT(it)
	}
	return out, nil
}

var kinds = []Kind{
	newKind[Fractura]("fractura", "fractura", "Fractura", "fracturas",
		"numero_diente", "tipo", "severidad", "color").
		bounded("tipo", chars(50)),
	newKind[Espigo]("espigo", "espigo", "Espigo", "espigos",
		"numero_diente", "tipo", "color"),
	newKind[Erupcion]("erupcion", "erupcion", "Erupcion", "erupciones",
		"numero_diente", "progreso_pct", "color"),
	newKind[Extruida]("extruida", "extruida", "Extruida", "extruidas",
		"numero_diente", "magnitud_mm", "color"),
	newKind[Intrusion]("intrusion", "intrusion", "Intrusion", "intrusiones",
		"numero_diente", "magnitud_mm", "color"),
	newKind[Giroversion]("giroversion", "giroversion", "Giroversion", "giroversiones",
		"numero_diente", "direccion", "grados", "color"),
	newKind[Clavija]("clavija", "clavija", "Clavija", "clavijas",
		"numero_diente", "posicion", "color"),
	newKind[Geminacion]("geminacion", "geminacion", "Geminacion", "geminaciones",
		"numero_diente", "tipo", "color"),
	newKind[Supernumerario]("supernumerario", "supernumerario", "Supernumerario", "supernumerarios",
		"diente_a", "diente_b", "color"),
	newKind[Impactacion]("impactacion", "impactacion", "Impactacion", "impactaciones",
		"numero_diente", "tipo", "color"),
	newKind[Endodoncia]("endodoncia", "endodoncia", "Endodoncia", "endodoncias",
		"numero_diente", "conductos", "estado", "color"),
	newKind[CoronaTemporal]("corona-temporal", "corona_temporal", "CoronaTemporal", "coronasTemporales",
		"numero_diente", "material", "color"),
	newKind[Corona]("corona", "corona_v", "CoronaV", "coronas",
		"numero_diente", "tipo_codigo", "material", "color"),
	newKind[Restauracion]("restauracion", "restauracion", "Restauracion", "restauraciones",
		"numero_diente", "tipo", "material", "areas", "color").
		bounded("tipo", chars(50)),
	newKind[Fusion]("fusion", "fusion", "Fusion", "fusiones",
		"diente_a", "diente_b", "tipo", "color"),
	newKind[Edentulo]("edentulo", "edentulo", "Edentulo", "edentulos",
		"diente_inicio", "diente_fin", "tipo", "color"),
	newKind[Protesis]("protesis", "protesis_v", "ProtesisV", "protesis",
		"tipo_codigo", "sub_tipo", "material_codigo", "color", "observaciones").
		withTeeth("protesis_v_diente", "protesis_v_id", "rol"),
	newKind[Implante]("implante", "implante", "Implante", "implantes",
		"numero_diente", "diametro_mm", "longitud_mm", "sistema", "material", "color"),
	newKind[AparatoFijo]("aparato-fijo", "aparato_fijo", "AparatoFijo", "aparatosFijos",
		"tipo", "color").
		withTeeth("aparato_fijo_diente", "aparato_fijo_id", "elemento").
		bounded("tipo", chars(50)),
	newKind[AparatoRemovible]("aparato-removible", "aparato_removible", "AparatoRemovible", "aparatosRemovibles",
		"tipo", "posicion", "diente_inicio", "diente_fin", "color").
		bounded("tipo", chars(50)).
		bounded("posicion", chars(20)),
	newKind[Arco]("arco", "arco_ortodoncia", "ArcoOrtodoncia", "arcos",
		"tipo", "color", "puntos"),
	newKind[Linea]("linea", "linea", "Linea", "lineas",
		"color", "grosor", "tipo", "puntos"),
	newKind[Flecha]("flecha", "flecha", "Flecha", "flechas",
		"color", "origen_x", "origen_y", "destino_x", "destino_y", "estilo"),
	newKind[Simbolo]("simbolo", "simbolo_clinico", "SimboloClinico", "simbolos",
		"tipo_codigo", "pos_x", "pos_y", "color"),
	newKind[Anotacion]("anotacion", "anotacion", "Anotacion", "anotaciones",
		"categoria", "texto"),
}

// Kinds returns every registered finding kind in full-view order.
func Kinds() []Kind {
	return kinds
}

// Lookup returns the kind served at path.
func Lookup(path string) (Kind, bool) {
	for _, k := range kinds {
		if k.Path() == path {
			return k, true
		}
	}
	return nil, false
}

// Set holds the findings of one version keyed by Kind.Key.
type Set map[string][]Finding
