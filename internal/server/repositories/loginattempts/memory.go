package loginattempts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authservice/internal/server/models"
)

// InMemoryRepository keeps attempts in insertion order.
type InMemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	attempts []models.LoginAttempt
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, attempt *models.LoginAttempt) (*models.LoginAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	attempt.ID = r.nextID
	r.attempts = append(r.attempts, *attempt)

	return attempt, nil
}

// List returns a copy of all attempts, oldest first.
func (r *InMemoryRepository) List() []models.LoginAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.LoginAttempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}
