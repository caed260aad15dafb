// Package loginattempts stores the append-only login audit log.
package loginattempts

import (
	"context"

	"github.com/dmitrijs2005/authservice/internal/server/models"
)

// Repository appends login attempts. Attempts are never updated or deleted,
// and no account needs to exist for the submitted login.
type Repository interface {
	Append(ctx context.Context, attempt *models.LoginAttempt) (*models.LoginAttempt, error)
}
