// Package migrations holds the goose SQL migrations for the postgres blob
// table, embedded so the binaries do not depend on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
