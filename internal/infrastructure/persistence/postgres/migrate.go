package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/DanielPopoola/connect-fulfillment/db/migrations"
)

// Migrate applies every embedded *.up.sql file in name order. The scripts
// are idempotent, so running it on an up-to-date schema is a no-op.
func Migrate(ctx context.Context, db *DB) error {
	names, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Pool.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		db.logger.Info("applied migration", "name", name)
	}
	return nil
}
