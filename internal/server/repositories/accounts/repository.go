// Package accounts stores registered accounts keyed by normalized login.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/authservice/internal/server/models"
)

// Repository is the account half of the credential store.
//
// Create is the final arbiter of login uniqueness: when another account with
// the same normalized login already exists it must fail with
// common.ErrorAlreadyExists, regardless of any earlier Exists check.
type Repository interface {
	GetByNormalizedLogin(ctx context.Context, normalized string) (*models.Account, error)
	Exists(ctx context.Context, normalized string) (bool, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
}
