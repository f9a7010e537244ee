package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change of the quiz database. Each file
// registers itself in init, named by its timestamp prefix.
var Migrations = migrate.NewMigrations()
