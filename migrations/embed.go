// Package migrations embeds the SQL migration files so the goose programmatic
// API can apply them at server startup and in test TestMain functions.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// The server runs migrations from the binary itself, so schema and code
// can never drift apart in a deployment.
//
//go:embed *.sql
var FS embed.FS
