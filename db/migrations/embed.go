// Package migrations embeds the journal schema.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
