package finding

import (
	"fmt"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/pkg/fdi"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

// -- Per-tooth findings --

type Fractura struct {
	Base
	Tooth
	Tipo      *string `json:"tipo" db:"tipo"`
	Severidad *string `json:"severidad" db:"severidad"`
	Color     *string `json:"color" db:"color"`
}

func (f *Fractura) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Tipo, f.Severidad, f.Color}
}

type Espigo struct {
	Base
	Tooth
	Tipo  *string `json:"tipo" db:"tipo"`
	Color *string `json:"color" db:"color"`
}

func (f *Espigo) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Tipo, f.Color}
}

type Erupcion struct {
	Base
	Tooth
	ProgresoPct *float64 `json:"progresoPct" db:"progreso_pct"`
	Color       *string  `json:"color" db:"color"`
}

func (f *Erupcion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.ProgresoPct, f.Color}
}

type Extruida struct {
	Base
	Tooth
	MagnitudMM *float64 `json:"magnitudMM" db:"magnitud_mm"`
	Color      *string  `json:"color" db:"color"`
}

func (f *Extruida) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.MagnitudMM, f.Color}
}

type Intrusion struct {
	Base
	Tooth
	MagnitudMM *float64 `json:"magnitudMM" db:"magnitud_mm"`
	Color      *string  `json:"color" db:"color"`
}

func (f *Intrusion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.MagnitudMM, f.Color}
}

type Giroversion struct {
	Base
	Tooth
	Direccion *string `json:"direccion" db:"direccion"`
	Grados    *int    `json:"grados" db:"grados"`
	Color     *string `json:"color" db:"color"`
}

func (f *Giroversion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Direccion, f.Grados, f.Color}
}

type Clavija struct {
	Base
	Tooth
	Posicion *string `json:"posicion" db:"posicion"`
	Color    *string `json:"color" db:"color"`
}

func (f *Clavija) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Posicion, f.Color}
}

type Geminacion struct {
	Base
	Tooth
	Tipo  *string `json:"tipo" db:"tipo"`
	Color *string `json:"color" db:"color"`
}

func (f *Geminacion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Tipo, f.Color}
}

type Impactacion struct {
	Base
	Tooth
	Tipo  *string `json:"tipo" db:"tipo"`
	Color *string `json:"color" db:"color"`
}

func (f *Impactacion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Tipo, f.Color}
}

type Endodoncia struct {
	Base
	Tooth
	Conductos *int    `json:"conductos" db:"conductos"`
	Estado    *string `json:"estado" db:"estado"`
	Color     *string `json:"color" db:"color"`
}

func (f *Endodoncia) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Conductos, f.Estado, f.Color}
}

type CoronaTemporal struct {
	Base
	Tooth
	Material *string `json:"material" db:"material"`
	Color    *string `json:"color" db:"color"`
}

func (f *CoronaTemporal) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Material, f.Color}
}

type Restauracion struct {
	Base
	Tooth
	Tipo     *string `json:"tipo" db:"tipo"`
	Material *string `json:"material" db:"material"`
	Areas    *string `json:"areas" db:"areas"`
	Color    *string `json:"color" db:"color"`
}

func (f *Restauracion) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.Tipo, f.Material, f.Areas, f.Color}
}

type Corona struct {
	Base
	Tooth
	TipoCodigo *string `json:"tipoCodigo" db:"tipo_codigo"`
	Material   *string `json:"material" db:"material"`
	Color      *string `json:"color" db:"color"`
}

func (f *Corona) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.TipoCodigo, f.Material, f.Color}
}

type Implante struct {
	Base
	Tooth
	DiametroMM *float64 `json:"diametroMM" db:"diametro_mm"`
	LongitudMM *float64 `json:"longitudMM" db:"longitud_mm"`
	Sistema    *string  `json:"sistema" db:"sistema"`
	Material   *string  `json:"material" db:"material"`
	Color      *string  `json:"color" db:"color"`
}

func (f *Implante) values() []interface{} {
	return []interface{}{f.NumeroDiente, f.DiametroMM, f.LongitudMM, f.Sistema, f.Material, f.Color}
}

// -- Spans between teeth --

type Fusion struct {
	Base
	DienteA int     `json:"dienteA" db:"diente_a"`
	DienteB int     `json:"dienteB" db:"diente_b"`
	Tipo    *string `json:"tipo" db:"tipo"`
	Color   *string `json:"color" db:"color"`
}

func (f *Fusion) validate() error {
	if err := fdi.Check("dienteA", f.DienteA); err != nil {
		return apperr.Invalid(err)
	}
	return apperr.Invalid(fdi.Check("dienteB", f.DienteB))
}

func (f *Fusion) values() []interface{} {
	return []interface{}{f.DienteA, f.DienteB, f.Tipo, f.Color}
}

func (f *Fusion) detail() string { return fmt.Sprintf("A=%d;B=%d", f.DienteA, f.DienteB) }

type Edentulo struct {
	Base
	DienteInicio int     `json:"dienteInicio" db:"diente_inicio"`
	DienteFin    int     `json:"dienteFin" db:"diente_fin"`
	Tipo         *string `json:"tipo" db:"tipo"`
	Color        *string `json:"color" db:"color"`
}

func (f *Edentulo) validate() error {
	if err := fdi.Check("dienteInicio", f.DienteInicio); err != nil {
		return apperr.Invalid(err)
	}
	return apperr.Invalid(fdi.Check("dienteFin", f.DienteFin))
}

func (f *Edentulo) values() []interface{} {
	return []interface{}{f.DienteInicio, f.DienteFin, f.Tipo, f.Color}
}

func (f *Edentulo) detail() string { return fmt.Sprintf("I=%d;F=%d", f.DienteInicio, f.DienteFin) }

// Supernumerario sits on DienteA or between DienteA and DienteB.
type Supernumerario struct {
	Base
	DienteA int     `json:"dienteA" db:"diente_a"`
	DienteB *int    `json:"dienteB" db:"diente_b"`
	Color   *string `json:"color" db:"color"`
}

func (f *Supernumerario) validate() error {
	if err := fdi.Check("dienteA", f.DienteA); err != nil {
		return apperr.Invalid(err)
	}
	return checkOptionalTooth("dienteB", f.DienteB)
}

func (f *Supernumerario) values() []interface{} {
	return []interface{}{f.DienteA, f.DienteB, f.Color}
}

func (f *Supernumerario) detail() string {
	return fmt.Sprintf("A=%d;B=%s", f.DienteA, fmtOptional(f.DienteB))
}

// -- Composite findings --

type Protesis struct {
	Base
	TipoCodigo     string     `json:"tipoCodigo" db:"tipo_codigo"`
	SubTipo        *string    `json:"subTipo" db:"sub_tipo"`
	MaterialCodigo *string    `json:"materialCodigo" db:"material_codigo"`
	Color          *string    `json:"color" db:"color"`
	Observaciones  *string    `json:"observaciones" db:"observaciones"`
	Dientes        []ToothRef `json:"dientes" db:"-"`
}

func (f *Protesis) validate() error {
	if err := required("tipoCodigo", f.TipoCodigo); err != nil {
		return err
	}
	return checkTeeth(f.Dientes)
}

func (f *Protesis) values() []interface{} {
	return []interface{}{f.TipoCodigo, f.SubTipo, f.MaterialCodigo, f.Color, f.Observaciones}
}

func (f *Protesis) detail() string        { return "Tipo=" + f.TipoCodigo }
func (f *Protesis) teeth() []ToothRef     { return f.Dientes }
func (f *Protesis) setTeeth(t []ToothRef) { f.Dientes = t }

type AparatoFijo struct {
	Base
	Tipo    string     `json:"tipo" db:"tipo"`
	Color   *string    `json:"color" db:"color"`
	Dientes []ToothRef `json:"dientes" db:"-"`
}

func (f *AparatoFijo) validate() error {
	if err := required("tipo", f.Tipo); err != nil {
		return err
	}
	return checkTeeth(f.Dientes)
}

func (f *AparatoFijo) values() []interface{} {
	return []interface{}{f.Tipo, f.Color}
}

func (f *AparatoFijo) detail() string        { return "Tipo=" + f.Tipo }
func (f *AparatoFijo) teeth() []ToothRef     { return f.Dientes }
func (f *AparatoFijo) setTeeth(t []ToothRef) { f.Dientes = t }

// -- Appliances and canvas elements --

type AparatoRemovible struct {
	Base
	Tipo         string  `json:"tipo" db:"tipo"`
	Posicion     *string `json:"posicion" db:"posicion"`
	DienteInicio *int    `json:"dienteInicio" db:"diente_inicio"`
	DienteFin    *int    `json:"dienteFin" db:"diente_fin"`
	Color        *string `json:"color" db:"color"`
}

func (f *AparatoRemovible) validate() error {
	if err := required("tipo", f.Tipo); err != nil {
		return err
	}
	if err := checkOptionalTooth("dienteInicio", f.DienteInicio); err != nil {
		return err
	}
	return checkOptionalTooth("dienteFin", f.DienteFin)
}

func (f *AparatoRemovible) values() []interface{} {
	return []interface{}{f.Tipo, f.Posicion, f.DienteInicio, f.DienteFin, f.Color}
}

func (f *AparatoRemovible) detail() string { return "Tipo=" + f.Tipo }

// Arco is an orthodontic arch drawn through Puntos, the canvas points as
// sent by the UI.
type Arco struct {
	Base
	Tipo   *string       `json:"tipo" db:"tipo"`
	Color  *string       `json:"color" db:"color"`
	Puntos jsontext.Text `json:"puntos" db:"puntos"`
}

func (f *Arco) validate() error {
	if f.Puntos.Empty() {
		return apperr.Validation("puntos is required")
	}
	return nil
}

func (f *Arco) values() []interface{} {
	return []interface{}{f.Tipo, f.Color, f.Puntos}
}

func (f *Arco) detail() string { return "" }

type Linea struct {
	Base
	Color  *string       `json:"color" db:"color"`
	Grosor *float64      `json:"grosor" db:"grosor"`
	Tipo   *string       `json:"tipo" db:"tipo"`
	Puntos jsontext.Text `json:"puntos" db:"puntos"`
}

func (f *Linea) validate() error {
	if f.Puntos.Empty() {
		return apperr.Validation("puntos is required")
	}
	return nil
}

func (f *Linea) values() []interface{} {
	return []interface{}{f.Color, f.Grosor, f.Tipo, f.Puntos}
}

func (f *Linea) detail() string { return "" }

type Flecha struct {
	Base
	Color    *string  `json:"color" db:"color"`
	OrigenX  *float64 `json:"origenX" db:"origen_x"`
	OrigenY  *float64 `json:"origenY" db:"origen_y"`
	DestinoX *float64 `json:"destinoX" db:"destino_x"`
	DestinoY *float64 `json:"destinoY" db:"destino_y"`
	Estilo   *string  `json:"estilo" db:"estilo"`
}

func (f *Flecha) validate() error {
	if f.OrigenX == nil || f.OrigenY == nil || f.DestinoX == nil || f.DestinoY == nil {
		return apperr.Validation("origenX, origenY, destinoX and destinoY are required")
	}
	return nil
}

func (f *Flecha) values() []interface{} {
	return []interface{}{f.Color, f.OrigenX, f.OrigenY, f.DestinoX, f.DestinoY, f.Estilo}
}

func (f *Flecha) detail() string { return "" }

type Simbolo struct {
	Base
	TipoCodigo string   `json:"tipoCodigo" db:"tipo_codigo"`
	PosX       *float64 `json:"posX" db:"pos_x"`
	PosY       *float64 `json:"posY" db:"pos_y"`
	Color      *string  `json:"color" db:"color"`
}

func (f *Simbolo) validate() error {
	if err := required("tipoCodigo", f.TipoCodigo); err != nil {
		return err
	}
	if f.PosX == nil || f.PosY == nil {
		return apperr.Validation("posX and posY are required")
	}
	return nil
}

func (f *Simbolo) values() []interface{} {
	return []interface{}{f.TipoCodigo, f.PosX, f.PosY, f.Color}
}

func (f *Simbolo) detail() string { return "" }

type Anotacion struct {
	Base
	Categoria *string `json:"categoria" db:"categoria"`
	Texto     *string `json:"texto" db:"texto"`
}

func (f *Anotacion) validate() error { return nil }

func (f *Anotacion) values() []interface{} {
	return []interface{}{f.Categoria, f.Texto}
}

func (f *Anotacion) detail() string { return "" }
