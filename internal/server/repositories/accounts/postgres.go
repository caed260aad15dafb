package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authservice/internal/common"
	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE raised by a duplicate unique key.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (login, login_normalized, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Login, account.LoginNormalized, account.PasswordHash).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByNormalizedLogin(ctx context.Context, normalized string) (*models.Account, error) {
	query :=
		`SELECT id, login, login_normalized, password_hash, created_at FROM accounts
		 WHERE login_normalized = $1
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, normalized).
		Scan(&a.ID, &a.Login, &a.LoginNormalized, &a.PasswordHash, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, normalized string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE login_normalized = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, normalized).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
