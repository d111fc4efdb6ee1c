// Package migrations embeds the level catalog schema migrations.
package migrations

import "embed"

// FS holds the golang-migrate style *.up.sql / *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
