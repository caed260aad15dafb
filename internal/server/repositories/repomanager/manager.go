package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/loginattempts"
)

// RepositoryManager vends the credential store repositories and prepares the
// schema they rely on.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	LoginAttempts(db dbx.DBTX) loginattempts.Repository
}
