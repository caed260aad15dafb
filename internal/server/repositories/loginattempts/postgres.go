package loginattempts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authservice/internal/dbx"
	"github.com/dmitrijs2005/authservice/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, attempt *models.LoginAttempt) (*models.LoginAttempt, error) {

	query :=
		`INSERT INTO login_attempts (login, login_normalized, success, remote_ip, user_agent, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		attempt.Login,
		attempt.LoginNormalized,
		attempt.Success,
		nullString(attempt.RemoteIP),
		nullString(attempt.UserAgent),
		attempt.OccurredAt,
	).Scan(&attempt.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attempt, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
