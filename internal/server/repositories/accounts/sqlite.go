package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authservice/internal/common"
	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/models"
	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository stores accounts in SQLite. Ids are generated here and
// created_at is kept as Unix milliseconds.
type SQLiteRepository struct {
	db    dbx.DBTX
	newID func() string
	now   func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, newID: uuid.NewString, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, login, login_normalized, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 `

	id := r.newID()
	created := r.now().UTC().UnixMilli()

	_, err := r.db.ExecContext(ctx, query, id, account.Login, account.LoginNormalized, account.PasswordHash, created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.ID = id
	account.CreatedAt = time.UnixMilli(created).UTC()
	return account, nil
}

func (r *SQLiteRepository) GetByNormalizedLogin(ctx context.Context, normalized string) (*models.Account, error) {
	query :=
		`SELECT id, login, login_normalized, password_hash, created_at FROM accounts
		 WHERE login_normalized = ?
		 `

	var created int64
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, normalized).
		Scan(&a.ID, &a.Login, &a.LoginNormalized, &a.PasswordHash, &created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.CreatedAt = time.UnixMilli(created).UTC()
	return a, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, normalized string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE login_normalized = ?)`

	var exists int
	if err := r.db.QueryRowContext(ctx, query, normalized).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists == 1, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
