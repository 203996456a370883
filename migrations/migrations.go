// Package migrations embeds the SQL schema migrations for the applications store.
package migrations

import "embed"

// FS holds the numbered up/down migration files at its root.
//
//go:embed *.sql
var FS embed.FS
