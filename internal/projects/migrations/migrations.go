// Package migrations embeds the projects service schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
