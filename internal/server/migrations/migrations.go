// Package migrations embeds the sync server's goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
