package finding

import (
	"fmt"
	"time"

	"github.com/odontograma/odontograma/internal/platform/apperr"
	"github.com/odontograma/odontograma/pkg/fdi"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

// Finding is a clinical annotation recorded against one odontogram version.
type Finding interface {
	base() *Base
	validate() error
	// values returns the kind's own columns in the order its Kind lists them.
	values() []interface{}
	// detail is the audit detail written on insert.
	detail() string
}

// Base holds the columns every version-scoped finding table shares.
type Base struct {
	ID            int           `json:"id" db:"id"`
	VersionID     int           `json:"odontogramaVersionId" db:"odontograma_version_id"`
	Metadata      jsontext.Text `json:"metadata" db:"metadata"`
	Usuario       *string       `json:"usuario" db:"usuario_creacion"`
	FechaCreacion time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
}

func (b *Base) base() *Base { return b }

// Tooth is embedded by the findings placed on a single tooth.
type Tooth struct {
	NumeroDiente int `json:"numeroDiente" db:"numero_diente"`
}

func (t *Tooth) validate() error {
	return apperr.Invalid(fdi.Check("numeroDiente", t.NumeroDiente))
}

func (t *Tooth) detail() string {
	return fmt.Sprintf("Diente=%d", t.NumeroDiente)
}

// ToothRef links a composite finding (prosthesis, fixed appliance) to one of
// its teeth. Rol is used by prostheses, Elemento by appliances.
type ToothRef struct {
	OwnerID  int     `json:"-" db:"owner_id"`
	Numero   int     `json:"numero" db:"numero_diente"`
	Rol      *string `json:"rol,omitempty" db:"rol"`
	Elemento *string `json:"elemento,omitempty" db:"elemento"`
}

// composite is implemented by findings that own a list of teeth.
type composite interface {
	Finding
	teeth() []ToothRef
	setTeeth([]ToothRef)
}

func checkTeeth(refs []ToothRef) error {
	for _, r := range refs {
		if err := fdi.Check("dientes.numero", r.Numero); err != nil {
			return apperr.Invalid(err)
		}
	}
	return nil
}

func checkOptionalTooth(field string, n *int) error {
	if n == nil {
		return nil
	}
	return apperr.Invalid(fdi.Check(field, *n))
}

func required(field string, s string) error {
	if s == "" {
		return apperr.Validation("%s is required", field)
	}
	return nil
}

func fmtOptional(n *int) string {
	if n == nil {
		return "null"
	}
	return fmt.Sprint(*n)
}

// attr returns the join-table attribute stored in column.
func (t ToothRef) attr(column string) *string {
	if column == "elemento" {
		return t.Elemento
	}
	return t.Rol
}
