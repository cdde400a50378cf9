package migrations

import "embed"

// FS holds the Postgres schema migrations, applied by cmd/migrator and by
// pgtestutil.
//
//go:embed *.sql
var FS embed.FS
