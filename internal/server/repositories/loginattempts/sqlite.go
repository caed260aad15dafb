package loginattempts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, attempt *models.LoginAttempt) (*models.LoginAttempt, error) {

	query :=
		`INSERT INTO login_attempts (login, login_normalized, success, remote_ip, user_agent, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 `

	res, err := r.db.ExecContext(ctx, query,
		attempt.Login,
		attempt.LoginNormalized,
		attempt.Success,
		nullString(attempt.RemoteIP),
		nullString(attempt.UserAgent),
		attempt.OccurredAt.UTC().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	attempt.ID = id
	return attempt, nil
}
