package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/loginattempts"
)

// InMemoryRepositoryManager hands out the same process-local repositories
// regardless of the DBTX it is given.
type InMemoryRepositoryManager struct {
	accounts      *accounts.InMemoryRepository
	loginAttempts *loginattempts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts:      accounts.NewInMemoryRepository(),
		loginAttempts: loginattempts.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) LoginAttempts(dbx.DBTX) loginattempts.Repository {
	return m.loginAttempts
}
