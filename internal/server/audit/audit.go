// Package audit delivers login attempt records to durable sinks without
// letting a slow or failing sink affect the authentication result.
package audit

import (
	"context"

	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/loginattempts"
)

// Recorder accepts login attempts for persistence. Record never fails the
// caller; delivery problems are reported through logging and Stats.
type Recorder interface {
	Record(ctx context.Context, attempt *models.LoginAttempt)
}

// Sink persists a single login attempt.
type Sink interface {
	Name() string
	Write(ctx context.Context, attempt *models.LoginAttempt) error
}

// RepositorySink writes attempts to the login_attempts store.
type RepositorySink struct {
	repo loginattempts.Repository
}

func NewRepositorySink(repo loginattempts.Repository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Name() string { return "login_attempts" }

func (s *RepositorySink) Write(ctx context.Context, attempt *models.LoginAttempt) error {
	_, err := s.repo.Append(ctx, attempt)
	return err
}
