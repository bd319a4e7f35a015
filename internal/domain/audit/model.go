package audit

import "time"

// Entry is a row of odontograma_audit: an action against a base chart.
type Entry struct {
	ID           int       `json:"id" db:"id"`
	OdontogramID *int      `json:"odontogramaId" db:"odontograma_id"`
	NroHistoria  *string   `json:"nroHistoria" db:"nro_historia"`
	Action       string    `json:"accion" db:"accion"`
	Detail       *string   `json:"detalle" db:"detalle"`
	User         *string   `json:"usuario" db:"usuario"`
	Fecha        time.Time `json:"fecha" db:"fecha"`
}

// VersionEntry is a row of odontograma_version_audit. Entity names the
// finding table in CamelCase ("Fractura", "VersionSnapshot"), Key identifies
// the row ("Id=12").
type VersionEntry struct {
	ID        int       `json:"id" db:"id"`
	VersionID *int      `json:"odontogramaVersionId" db:"odontograma_version_id"`
	Entity    string    `json:"entidad" db:"entidad"`
	Action    string    `json:"accion" db:"accion"`
	Key       *string   `json:"clave" db:"clave"`
	Detail    *string   `json:"detalle" db:"detalle"`
	User      *string   `json:"usuario" db:"usuario"`
	Fecha     time.Time `json:"fecha" db:"fecha"`
}

// Version audit actions.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionUpsert = "UPSERT"
	ActionDelete = "DELETE"
	ActionLock   = "LOCK"
)

// Ptr returns a pointer to s, or nil for the empty string. Audit columns are
// nullable and an empty detail is stored as NULL.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
