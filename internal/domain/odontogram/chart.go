package odontogram

import (
	"time"

	"github.com/odontograma/odontograma/pkg/jsontext"
)

// Findings recorded against the base chart rather than a version. Each row
// carries the clinical record number, resolved from the header when the
// request omits it.

type Diente struct {
	ID                  int        `json:"id" db:"id"`
	OdontogramID        int        `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria         *string    `json:"nroHistoria" db:"nro_historia"`
	NumeroDiente        int        `json:"numeroDiente" db:"numero_diente"`
	Estado              *string    `json:"estado" db:"estado"`
	FechaCreacion       time.Time  `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario             *string    `json:"usuario" db:"usuario_creacion"`
	FechaModificacion   *time.Time `json:"fechaModificacion" db:"fecha_modificacion"`
	UsuarioModificacion *string    `json:"usuarioModificacion" db:"usuario_modificacion"`
}

// EstadoExtraccion marks a tooth as extracted.
const EstadoExtraccion = "extraccion"

type DienteArea struct {
	ID                  int        `json:"id" db:"id"`
	OdontogramID        int        `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria         *string    `json:"nroHistoria" db:"nro_historia"`
	NumeroDiente        int        `json:"numeroDiente" db:"numero_diente"`
	Area                string     `json:"area" db:"area"`
	Estado              *string    `json:"estado" db:"estado"`
	Color               *string    `json:"color" db:"color"`
	Observaciones       *string    `json:"observaciones" db:"observaciones"`
	FechaCreacion       time.Time  `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario             *string    `json:"usuario" db:"usuario_creacion"`
	FechaModificacion   *time.Time `json:"fechaModificacion" db:"fecha_modificacion"`
	UsuarioModificacion *string    `json:"usuarioModificacion" db:"usuario_modificacion"`
}

type DienteCodigo struct {
	ID            int       `json:"id" db:"id"`
	OdontogramID  int       `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria   *string   `json:"nroHistoria" db:"nro_historia"`
	NumeroDiente  int       `json:"numeroDiente" db:"numero_diente"`
	Codigo        string    `json:"codigo" db:"codigo"`
	Descripcion   *string   `json:"descripcion" db:"descripcion"`
	Color         *string   `json:"color" db:"color"`
	FechaCreacion time.Time `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario       *string   `json:"usuario" db:"usuario_creacion"`
}

// Transposicion and Diastema keep the snake_case tooth fields the charting
// UI sends.
type Transposicion struct {
	ID            int       `json:"id" db:"id"`
	OdontogramID  int       `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria   *string   `json:"nroHistoria" db:"nro_historia"`
	DienteFrom    int       `json:"diente_from" db:"diente_from"`
	DienteTo      int       `json:"diente_to" db:"diente_to"`
	Color         *string   `json:"color" db:"color"`
	Observaciones *string   `json:"observaciones" db:"observaciones"`
	FechaCreacion time.Time `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario       *string   `json:"usuario" db:"usuario_creacion"`
}

type Diastema struct {
	ID            int       `json:"id" db:"id"`
	OdontogramID  int       `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria   *string   `json:"nroHistoria" db:"nro_historia"`
	DienteLeft    int       `json:"diente_left" db:"diente_left"`
	DienteRight   int       `json:"diente_right" db:"diente_right"`
	Tamano        *float64  `json:"tamano" db:"tamano"`
	Observaciones *string   `json:"observaciones" db:"observaciones"`
	FechaCreacion time.Time `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario       *string   `json:"usuario" db:"usuario_creacion"`
}

// Protesis spans the teeth listed in Dientes, stored in protesis_diente.
type Protesis struct {
	ID            int           `json:"id" db:"id"`
	OdontogramID  int           `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria   *string       `json:"nroHistoria" db:"nro_historia"`
	Tipo          string        `json:"tipo" db:"tipo"`
	SubTipo       *string       `json:"subTipo" db:"sub_tipo"`
	Posicion      *string       `json:"posicion" db:"posicion"`
	Color         *string       `json:"color" db:"color"`
	Observaciones *string       `json:"observaciones" db:"observaciones"`
	Metadata      jsontext.Text `json:"metadata" db:"metadata"`
	FechaCreacion time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario       *string       `json:"usuario" db:"usuario_creacion"`
	Dientes       []int         `json:"dientes" db:"-"`
}

// Chart groups every base finding of one odontogram.
type Chart struct {
	Dientes         []*Diente        `json:"dientes"`
	Areas           []*DienteArea    `json:"areas"`
	Codigos         []*DienteCodigo  `json:"codigos"`
	Protesis        []*Protesis      `json:"protesis"`
	Transposiciones []*Transposicion `json:"transposiciones"`
	Diastemas       []*Diastema      `json:"diastemas"`
}

// normalize replaces nil lists so the UI always receives arrays.
func (c *Chart) normalize() {
	if c.Dientes == nil {
		c.Dientes = []*Diente{}
	}
	if c.Areas == nil {
		c.Areas = []*DienteArea{}
	}
	if c.Codigos == nil {
		c.Codigos = []*DienteCodigo{}
	}
	if c.Protesis == nil {
		c.Protesis = []*Protesis{}
	}
	for _, p := range c.Protesis {
		if p.Dientes == nil {
			p.Dientes = []int{}
		}
	}
	if c.Transposiciones == nil {
		c.Transposiciones = []*Transposicion{}
	}
	if c.Diastemas == nil {
		c.Diastemas = []*Diastema{}
	}
}
