// Package migrations holds the audit store schema as golang-migrate files.
package migrations

import "embed"

// FS contains the numbered up/down migrations.
//
//go:embed *.sql
var FS embed.FS
