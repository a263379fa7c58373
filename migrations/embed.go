package migrations

import "embed"

// FS embeds the SQL migrations used by the postgres and sqlite record stores.
// The statements are written to run unchanged on both engines.
//
//go:embed *.sql
var FS embed.FS
