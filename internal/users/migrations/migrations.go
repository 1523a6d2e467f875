// Package migrations embeds the users service schema migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
