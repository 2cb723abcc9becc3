// Package migrations embeds the ledger schema so binaries can apply it at
// startup without shipping loose SQL files.
package migrations

import _ "embed"

//go:embed schema.sql
var Schema string
