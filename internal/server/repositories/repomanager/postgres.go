// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/migrations"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/fixtures"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Collections returns a collections.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Collections(db dbx.DBTX) collections.Repository {
	return collections.NewPostgresRepository(db)
}

// Fixtures returns a fixtures.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Fixtures(db dbx.DBTX) fixtures.Repository {
	return fixtures.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
