package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pacelog/pacelog/migrations"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Migrate brings the database schema up to date using the embedded
// goose migrations. Goose needs a database/sql handle, not the pgx pool,
// so a short-lived lib/pq connection is opened just for the migration run.
func Migrate(ctx context.Context, host, port, dbName string) error {
	connString := fmt.Sprintf(
		"postgres://postgres@%s:%s/%s?sslmode=disable",
		host, port, dbName,
	)

	sqlDB, err := sql.Open("postgres", connString)
	if err != nil {
		return fmt.Errorf("open migration db conn: %w", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %s: %w", r.Source.Path, r.Error)
		}
	}

	return nil
}
