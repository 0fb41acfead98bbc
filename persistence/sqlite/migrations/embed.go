// Package migrations embeds the SQL migration files for the SQLite
// document store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
