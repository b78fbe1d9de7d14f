package configurator

import (
	"embed"

	"github.com/goliatone/go-site-configurator/internal/migrations"
)

// GetMigrationsFS returns the embedded goose migrations for the durable draft
// store, one directory per driver (sql/sqlite, sql/postgres).
func GetMigrationsFS() embed.FS {
	return migrations.FS()
}
