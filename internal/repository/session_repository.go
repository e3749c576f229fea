package repository

import (
	"context"
	"time"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// SessionRepository stores server-side login sessions
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SQLSessionRepository implements SessionRepository on PostgreSQL
type SQLSessionRepository struct {
	db DBTX
}

// NewSQLSessionRepository creates a new session repository
func NewSQLSessionRepository(db DBTX) SessionRepository {
	return &SQLSessionRepository{db: db}
}

func (r *SQLSessionRepository) Create(ctx context.Context, session *model.Session) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at",
		session.TokenHash, session.UserID, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	return wrapError("insert session", err)
}

// FindValid resolves an unexpired session to its active user
func (r *SQLSessionRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	query := `SELECT u.id, u.username, u.email, u.password_hash, u.is_superuser, u.is_active, u.date_joined, u.last_login
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token_hash = $1 AND s.expires_at > $2 AND u.is_active`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, tokenHash, now))
	if err != nil {
		return nil, wrapError("select session", err)
	}
	return user, nil
}

// Delete removes a session; deleting an unknown token is not an error
func (r *SQLSessionRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = $1", tokenHash)
	return wrapError("delete session", err)
}

func (r *SQLSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, wrapError("delete expired sessions", err)
	}
	return res.RowsAffected()
}
