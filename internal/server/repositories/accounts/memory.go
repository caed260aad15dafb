package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/authservice/internal/common"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in a map guarded by a mutex. Create checks
// and inserts under the same lock, which gives it the same uniqueness
// guarantee as the database index.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.LoginNormalized]; ok {
		return nil, common.ErrorAlreadyExists
	}

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()
	r.accounts[account.LoginNormalized] = *account

	return account, nil
}

func (r *InMemoryRepository) GetByNormalizedLogin(ctx context.Context, normalized string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[normalized]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *InMemoryRepository) Exists(ctx context.Context, normalized string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[normalized]
	return ok, nil
}

// Len reports the number of stored accounts.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
