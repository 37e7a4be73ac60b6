// Package migrations embeds the Postgres schema migrations for the
// audit store so golang-migrate can read them via its iofs source
// driver without shipping the SQL files alongside the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
