package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/funrun/internal/dbx"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/fixtures"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every repository from process memory.
// The DBTX argument is ignored, so transactions only scope the caller's
// database handle, not the data.
type InMemoryRepositoryManager struct {
	users       *users.MemoryRepository
	collections *collections.MemoryRepository
	fixtures    *fixtures.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	u := users.NewMemoryRepository()
	c := collections.NewMemoryRepository(u.All)
	return &InMemoryRepositoryManager{
		users:       u,
		collections: c,
		fixtures:    fixtures.NewMemoryRepository(c, u.Reset),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Collections(dbx.DBTX) collections.Repository {
	return m.collections
}

func (m *InMemoryRepositoryManager) Fixtures(dbx.DBTX) fixtures.Repository {
	return m.fixtures
}
