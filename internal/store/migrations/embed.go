package migrations

import "embed"

// FS holds the versioned schema for local.db.
//
//go:embed *.sql
var FS embed.FS
