package auth

import (
	"context"
	"database/sql"
	"io/fs"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// SetupPersistence registers the principal models, applies the
// embedded dialect migrations, and returns a ready client. Callers own
// the *sql.DB lifecycle.
func SetupPersistence(ctx context.Context, cfg persistence.Config, db *sql.DB, dialect schema.Dialect) (*persistence.Client, error) {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*Seller)(nil))

	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		return nil, err
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// SetupSQLitePersistence opens a sqlite database at the given DSN and
// runs SetupPersistence over it. Useful for local development and
// integration testing; production deployments pass their own *sql.DB
// and dialect to SetupPersistence.
func SetupSQLitePersistence(ctx context.Context, cfg persistence.Config, dsn string) (*persistence.Client, error) {
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	client, err := SetupPersistence(ctx, cfg, db, sqlitedialect.New())
	if err != nil {
		db.Close()
		return nil, err
	}

	return client, nil
}
