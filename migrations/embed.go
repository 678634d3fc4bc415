// Package migrations embeds the schema migrations for every supported dialect.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per dialect: postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
