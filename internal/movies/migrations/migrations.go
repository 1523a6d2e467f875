// Package migrations embeds the movies service schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
