// Package services contains server-side business logic. This file implements
// CredentialService, which registers accounts and exchanges credentials for
// signed access tokens.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/authservice/internal/common"
	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/logging"
	"github.com/dmitrijs2005/authservice/internal/server/audit"
	"github.com/dmitrijs2005/authservice/internal/server/auth"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/dmitrijs2005/authservice/internal/server/password"
	"github.com/dmitrijs2005/authservice/internal/server/repositories/repomanager"
)

// RegisterResult is the outcome of a registration attempt. A duplicate login
// or missing credentials are reported here, not as errors.
type RegisterResult struct {
	Success bool
	Message string
}

// LoginRequest carries the submitted credentials and the caller context
// recorded in the audit log. RemoteIP and UserAgent may be empty.
type LoginRequest struct {
	Login     string
	Password  string
	RemoteIP  string
	UserAgent string
}

// LoginResult is the outcome of a login attempt. AccessToken, TokenType and
// ExpiresInMinutes are set only when Success is true.
type LoginResult struct {
	Success          bool
	Message          string
	AccessToken      string
	TokenType        string
	ExpiresInMinutes int
}

// CredentialService provides the two authentication operations:
//   - Register: create an account with a hashed password
//   - Login: verify credentials, audit the attempt and mint an access token
//
// It holds no locks. Login uniqueness is enforced by the accounts store.
type CredentialService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	issuer      *auth.Issuer
	recorder    audit.Recorder
	logger      logging.Logger
	now         func() time.Time
}

// NewCredentialService wires the service to its store, hasher, token issuer
// and audit recorder.
func NewCredentialService(db dbx.DBTX, m repomanager.RepositoryManager, h password.Hasher, i *auth.Issuer,
	r audit.Recorder, l logging.Logger) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		hasher:      h,
		issuer:      i,
		recorder:    r,
		logger:      l.With("module", "credential_service"),
		now:         time.Now,
	}
}

// NormalizeLogin returns the case-folded key used for uniqueness and lookup.
func NormalizeLogin(login string) string {
	return strings.ToUpper(login)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Register creates an account for login. The existence check is only an
// early exit; a concurrent insert that wins the race is detected through the
// store's ErrorAlreadyExists.
func (s *CredentialService) Register(ctx context.Context, login, pass string) (*RegisterResult, error) {
	if blank(login) || blank(pass) {
		return &RegisterResult{Message: common.MessageCredentialsRequired}, nil
	}
	if utf8.RuneCountInString(login) > models.MaxLoginLength {
		return &RegisterResult{Message: common.MessageLoginTooLong}, nil
	}

	normalized := NormalizeLogin(login)
	repo := s.repomanager.Accounts(s.db)

	exists, err := repo.Exists(ctx, normalized)
	if err != nil {
		return nil, s.storeError(ctx, "account lookup failed", err)
	}
	if exists {
		return &RegisterResult{Message: common.MessageUserExists}, nil
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	account := &models.Account{Login: login, LoginNormalized: normalized, PasswordHash: hash}
	if _, err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return &RegisterResult{Message: common.MessageUserExists}, nil
		}
		return nil, s.storeError(ctx, "account create failed", err)
	}

	s.logger.Info(ctx, "account registered", "login", login)
	return &RegisterResult{Success: true, Message: common.MessageUserCreated}, nil
}

// Login verifies the credentials and, on success, returns a bearer token.
// Unknown logins and wrong passwords produce the same reply. Every attempt
// that reaches the lookup is handed to the audit recorder exactly once.
func (s *CredentialService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if blank(req.Login) || blank(req.Password) {
		return &LoginResult{Message: common.MessageCredentialsRequired}, nil
	}

	normalized := NormalizeLogin(req.Login)
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByNormalizedLogin(ctx, normalized)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, s.storeError(ctx, "account lookup failed", err)
	}

	success := false
	if account != nil {
		ok, err := s.hasher.Verify(account.PasswordHash, req.Password)
		if err != nil {
			s.logger.Error(ctx, "stored password hash is unusable", "account_id", account.ID, "error", err)
		}
		success = ok && err == nil
	}

	s.recorder.Record(ctx, &models.LoginAttempt{
		Login:           common.TruncateString(req.Login, models.MaxLoginLength),
		LoginNormalized: common.TruncateString(normalized, models.MaxLoginLength),
		Success:         success,
		RemoteIP:        common.TruncateString(req.RemoteIP, models.MaxRemoteIPLength),
		UserAgent:       common.TruncateString(req.UserAgent, models.MaxUserAgentLength),
		OccurredAt:      s.now().UTC(),
	})

	if !success {
		s.logger.Info(ctx, "login rejected", "login", req.Login)
		return &LoginResult{Message: common.MessageInvalidCredentials}, nil
	}

	token, err := s.issuer.Issue(account.Login)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "account_id", account.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "login", req.Login, "jti", token.ID)
	return &LoginResult{
		Success:          true,
		Message:          common.MessageOK,
		AccessToken:      token.Value,
		TokenType:        common.TokenTypeBearer,
		ExpiresInMinutes: int(s.issuer.Validity() / time.Minute),
	}, nil
}

// storeError logs the raw cause and returns what the caller may see: the
// context error when the request was cancelled, ErrorInternal otherwise.
func (s *CredentialService) storeError(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.logger.Warn(ctx, msg, "error", err)
		return ctxErr
	}
	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
