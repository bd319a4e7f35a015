// Package catalog serves the procedure and diagnosis codes that can be
// placed on a tooth.
package catalog

// Codigo is a searchable code. Rows from the external service and
// diagnosis catalogues carry no category or default colour.
type Codigo struct {
	Codigo       string  `json:"codigo" db:"codigo"`
	Descripcion  string  `json:"descripcion" db:"descripcion"`
	Categoria    *string `json:"categoria" db:"categoria"`
	ColorDefault *string `json:"colorDefault" db:"color_default"`
	Activo       bool    `json:"activo" db:"activo"`
}

type UpsertRequest struct {
	Codigo       string  `json:"codigo"`
	Descripcion  string  `json:"descripcion"`
	Categoria    *string `json:"categoria"`
	ColorDefault *string `json:"colorDefault"`
}

const (
	searchLimit = 50
	browseLimit = 100
)
