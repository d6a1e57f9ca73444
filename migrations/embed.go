// Package migrations bundles the schema files applied at startup.
package migrations

import "embed"

// Files holds the ordered *.sql schema migrations.
//
//go:embed *.sql
var Files embed.FS
