// Package requerimiento serves the biological requirement form linked to a
// hospital account, looked up by its correlative number.
package requerimiento

import "time"

// Requerimiento is one form with its selected options grouped by function.
// JSON keys keep the snake_case names the form viewer reads.
type Requerimiento struct {
	ID              int                 `json:"id" db:"id"`
	IDCorrelativo   string              `json:"id_correlativo" db:"id_correlativo"`
	NroCuenta       int                 `json:"nro_cuenta" db:"nro_cuenta"`
	Medico          *string             `json:"medico" db:"medico"`
	NombresPaciente *string             `json:"nombres_paciente" db:"nombres_paciente"`
	Edad            *int                `json:"edad" db:"edad"`
	HistoriaClinica *string             `json:"historia_clinica" db:"historia_clinica"`
	FechaSalida     *time.Time          `json:"fecha_salida" db:"fecha_salida"`
	Hora            *string             `json:"hora" db:"hora"`
	Servicio        *string             `json:"servicio" db:"servicio"`
	FechaCreacion   time.Time           `json:"fecha_creacion" db:"fecha_creacion"`
	UsuarioCreacion *string             `json:"usuario_creacion" db:"usuario_creacion"`
	Funciones       map[string][]string `json:"funciones" db:"-"`
	TotalFunciones  int                 `json:"total_funciones" db:"-"`
	FechaFormato    string              `json:"fecha_formato,omitempty" db:"-"`
}

// Opcion is one selected option of a function.
type Opcion struct {
	Funcion string  `db:"funcion"`
	Opcion  *string `db:"opcion"`
}

const correlativoLen = 50
