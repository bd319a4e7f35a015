package version

import (
	"encoding/json"
	"time"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/domain/finding"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

// Version is one numbered revision of an odontogram. Findings recorded in
// the version tables hang off it.
type Version struct {
	ID              int           `json:"id" db:"id"`
	OdontogramID    int           `json:"odontogramaId" db:"odontograma_id"`
	VersionNumber   int           `json:"versionNumber" db:"version_number"`
	ParentVersionID *int          `json:"parentVersionId" db:"parent_version_id"`
	Locked          bool          `json:"locked" db:"locked"`
	Metadata        jsontext.Text `json:"metadata" db:"metadata"`
	FechaCreacion   time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
	UsuarioCreacion *string       `json:"usuarioCreacion" db:"usuario_creacion"`
	FechaBloqueo    *time.Time    `json:"fechaBloqueo" db:"fecha_bloqueo"`
	UsuarioBloqueo  *string       `json:"usuarioBloqueo" db:"usuario_bloqueo"`
}

type CreateRequest struct {
	Usuario         *string       `json:"usuario"`
	ParentVersionID *int          `json:"parentVersionId"`
	Metadata        jsontext.Text `json:"metadata"`
}

type LockRequest struct {
	Usuario *string `json:"usuario"`
}

// Snapshot is the UI state saved for a version, stored as JSON text.
type Snapshot struct {
	VersionID           int           `json:"odontogramaVersionId" db:"odontograma_version_id"`
	Data                string        `json:"-" db:"data"`
	Metadata            jsontext.Text `json:"metadata" db:"metadata"`
	FechaCreacion       time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
	UsuarioCreacion     *string       `json:"usuarioCreacion" db:"usuario_creacion"`
	FechaModificacion   *time.Time    `json:"fechaModificacion" db:"fecha_modificacion"`
	UsuarioModificacion *string       `json:"usuarioModificacion" db:"usuario_modificacion"`
}

// SnapshotRequest.Data accepts any JSON value. A string is stored as is,
// anything else as its compact JSON text.
type SnapshotRequest struct {
	Data     jsontext.Text `json:"data"`
	Usuario  *string       `json:"usuario"`
	Metadata jsontext.Text `json:"metadata"`
}

// SnapshotView is the GET response: Data holds the parsed snapshot, or null
// when the stored text is not JSON.
type SnapshotView struct {
	VersionID int             `json:"versionId"`
	Data      json.RawMessage `json:"data"`
	Raw       string          `json:"raw"`
	Meta      *Snapshot       `json:"meta"`
}

// Raiz holds the root triangles drawn for one tooth in a version.
type Raiz struct {
	ID                  int           `json:"id" db:"id"`
	VersionID           int           `json:"odontogramaVersionId" db:"odontograma_version_id"`
	NumeroDiente        int           `json:"numeroDiente" db:"numero_diente"`
	Configuracion       int           `json:"configuracion" db:"configuracion"`
	Triangulo1Activo    bool          `json:"triangulo1Activo" db:"triangulo1_activo"`
	Triangulo2Activo    bool          `json:"triangulo2Activo" db:"triangulo2_activo"`
	Triangulo3Activo    bool          `json:"triangulo3Activo" db:"triangulo3_activo"`
	Activo              bool          `json:"activo" db:"activo"`
	Metadata            jsontext.Text `json:"metadata" db:"metadata"`
	FechaCreacion       time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
	Usuario             *string       `json:"usuario" db:"usuario_creacion"`
	FechaModificacion   *time.Time    `json:"fechaModificacion" db:"fecha_modificacion"`
	UsuarioModificacion *string       `json:"usuarioModificacion" db:"usuario_modificacion"`
}

// Full is everything recorded against a version.
type Full struct {
	Version  *Version
	Findings finding.Set
	Audit    []*audit.VersionEntry
	Raices   []*Raiz
}

// MarshalJSON flattens the finding lists next to the version row so each
// kind appears under its own key.
func (f *Full) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.Findings)+3)
	for _, k := range finding.Kinds() {
		items := f.Findings[k.Key()]
		if items == nil {
			items = []finding.Finding{}
		}
		out[k.Key()] = items
	}
	out["version"] = f.Version
	out["audit"] = f.Audit
	if f.Audit == nil {
		out["audit"] = []*audit.VersionEntry{}
	}
	out["raices"] = f.Raices
	if f.Raices == nil {
		out["raices"] = []*Raiz{}
	}
	return json.Marshal(out)
}
