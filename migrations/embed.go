// Package migrations embeds the postgres schema migrations so the server,
// the migrate CLI and the integration tests apply the same files.
package migrations

import "embed"

// Files holds every *.up.sql / *.down.sql pair in this directory
//
//go:embed *.sql
var Files embed.FS
