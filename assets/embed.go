// assets/embed.go
//
// Files compiled into the binary:
//   - sql/*.sql:         schema migrations, applied in lexical order.
//   - concentration.yml: default board/deck/layout configuration.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var migrations embed.FS

//go:embed concentration.yml
var DefaultConfig []byte

// Migrations returns the migration files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err) // the directory is embedded above
	}
	return sub
}
