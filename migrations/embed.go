// Package migrations holds the numbered SQL files applied to every tenant
// schema. They are embedded so the server binary carries its own schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
