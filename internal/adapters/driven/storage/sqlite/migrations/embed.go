// Package migrations embeds the SQL migration files for the SQLite
// knowledge base backend.
package migrations

import "embed"

// FS holds the versioned migration files, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
