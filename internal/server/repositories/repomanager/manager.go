package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/fixtures"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Collections(db dbx.DBTX) collections.Repository
	Fixtures(db dbx.DBTX) fixtures.Repository
}
