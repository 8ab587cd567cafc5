// Package migrations contains embedded SQL migration files.
package migrations

import "embed"

// FS contains the migration SQL files.
//
//go:embed *.sql
var FS embed.FS
