package odontogram

import (
	"fmt"
	"time"

	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/pkg/jsontext"
)

// Odontogram is the header of one dental chart, created per visit.
type Odontogram struct {
	ID                  int           `json:"id" db:"id"`
	NroHistoria         *string       `json:"nroHistoria" db:"nro_historia"`
	Version             int           `json:"version" db:"version"`
	FechaVisita         *time.Time    `json:"fechaVisita" db:"fecha_visita"`
	TipoVisita          *string       `json:"tipoVisita" db:"tipo_visita"`
	Observaciones       *string       `json:"observaciones" db:"observaciones"`
	Activo              bool          `json:"activo" db:"activo"`
	Metadata            jsontext.Text `json:"metadata" db:"metadata"`
	FechaCreacion       time.Time     `json:"fechaCreacion" db:"fecha_creacion"`
	UsuarioCreacion     *string       `json:"usuarioCreacion" db:"usuario_creacion"`
	FechaModificacion   *time.Time    `json:"fechaModificacion" db:"fecha_modificacion"`
	UsuarioModificacion *string       `json:"usuarioModificacion" db:"usuario_modificacion"`
}

// CreateRequest is the body of POST /odontograma. NroCuenta is the legacy
// account number and may arrive as a JSON string or number.
type CreateRequest struct {
	NroHistoria   *string       `json:"nroHistoria"`
	NroCuenta     jsontext.Text `json:"nroCuenta"`
	FechaVisita   *string       `json:"fechaVisita"`
	TipoVisita    *string       `json:"tipoVisita"`
	Observaciones *string       `json:"observaciones"`
	Usuario       *string       `json:"usuario"`
	Metadata      jsontext.Text `json:"metadata"`
}

type ObservacionesRequest struct {
	Observaciones *string `json:"observaciones"`
	Usuario       *string `json:"usuario"`
}

// Summary is the compact listing row used by the patient record endpoints.
type Summary struct {
	ID            int       `json:"id" db:"id"`
	NroHistoria   *string   `json:"nroHistoria" db:"nro_historia"`
	Activo        bool      `json:"activo" db:"activo"`
	FechaCreacion time.Time `json:"fechaCreacion" db:"fecha_creacion"`
}

// HistoricoRow lists an odontogram with its version count and correlativo,
// the id zero-padded to ten digits.
type HistoricoRow struct {
	ID              int        `json:"id" db:"id"`
	NroHistoria     *string    `json:"nroHistoria" db:"nro_historia"`
	Version         int        `json:"version" db:"version"`
	FechaVisita     *time.Time `json:"fechaVisita" db:"fecha_visita"`
	TipoVisita      *string    `json:"tipoVisita" db:"tipo_visita"`
	Observaciones   *string    `json:"observaciones" db:"observaciones"`
	FechaCreacion   time.Time  `json:"fechaCreacion" db:"fecha_creacion"`
	UsuarioCreacion *string    `json:"usuarioCreacion" db:"usuario_creacion"`
	Versiones       int        `json:"versiones" db:"versiones"`
	Correlativo     string     `json:"correlativo" db:"-"`
}

// VersionRef is the short version row attached to the historico detail.
type VersionRef struct {
	ID              int       `json:"id" db:"id"`
	VersionNumber   int       `json:"versionNumber" db:"version_number"`
	FechaCreacion   time.Time `json:"fechaCreacion" db:"fecha_creacion"`
	UsuarioCreacion *string   `json:"usuarioCreacion" db:"usuario_creacion"`
}

// Paciente is read from the clinical record's patient table.
type Paciente struct {
	IDPaciente         int     `json:"idPaciente" db:"id_paciente"`
	NroHistoriaClinica string  `json:"nroHistoriaClinica" db:"nro_historia_clinica"`
	NroDocumento       *string `json:"nroDocumento" db:"nro_documento"`
	NombresPaciente    string  `json:"nombresPaciente" db:"nombres_paciente"`
}

// ExisteResult answers whether a clinical record number exists and which
// odontograms hang from it.
type ExisteResult struct {
	Exists              bool       `json:"exists"`
	Source              string     `json:"source"`
	Paciente            *Paciente  `json:"paciente"`
	OdontogramasCount   int        `json:"odontogramasCount"`
	LatestOdontogramaID *int       `json:"latestOdontogramaId"`
	LatestVersionID     *int       `json:"latestVersionId"`
	Odontogramas        []*Summary `json:"odontogramas"`
}

// RecordSource is reported by the existence check.
const RecordSource = "HistoriaClinica"

// Full is the complete base chart used to rehydrate the UI. Versiones and
// Correlativo are only set by the historico detail.
type Full struct {
	*Odontogram
	Chart
	Audit       []*audit.Entry `json:"audit"`
	Versiones   []*VersionRef  `json:"versiones,omitempty"`
	Correlativo string         `json:"correlativo,omitempty"`
}

// Correlativo formats an odontogram id the way the clinical record cites it.
func Correlativo(id int) string {
	return fmt.Sprintf("%010d", id)
}
