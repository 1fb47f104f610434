package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/envirosync/envirosync-backend/internal/common/db"
	"github.com/envirosync/envirosync-backend/internal/session/domain"
	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
)

var ErrSessionNotFound = pgx.ErrNoRows

// SessionWithUser is the validation read: the session row joined to the
// identity it belongs to. No credential material crosses this boundary.
type SessionWithUser struct {
	Session  domain.Session
	Identity userdomain.Identity
}

type Repository interface {
	Create(ctx context.Context, session domain.Session) error
	FindWithUser(ctx context.Context, token string) (SessionWithUser, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID userdomain.ID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, session domain.Session) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.Token,
		string(session.UserID),
		session.ExpiresAt,
	)
	return db.HandleExecError(err, "create session", start)
}

func (r *PgRepository) FindWithUser(ctx context.Context, token string) (SessionWithUser, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT s.token, s.user_id, s.expires_at, u.id, u.username
		 FROM sessions s
		 JOIN users u ON s.user_id = u.id
		 WHERE s.token = $1`,
		token,
	)

	var out SessionWithUser
	err := row.Scan(
		&out.Session.Token,
		&out.Session.UserID,
		&out.Session.ExpiresAt,
		&out.Identity.ID,
		&out.Identity.Username,
	)
	if err := db.HandleQueryError(err, ErrSessionNotFound, "find session", start); err != nil {
		return SessionWithUser{}, err
	}
	return out, nil
}

func (r *PgRepository) Delete(ctx context.Context, token string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE token = $1`,
		token,
	)
	return db.HandleExecError(err, "delete session", start)
}

func (r *PgRepository) DeleteByUserID(ctx context.Context, userID userdomain.ID) (int64, error) {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE user_id = $1`,
		string(userID),
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete sessions for user", start)
	}
	db.MeasureQuery("delete sessions for user", start)
	return res.RowsAffected(), nil
}

func (r *PgRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete expired sessions", start)
	}
	db.MeasureQuery("delete expired sessions", start)
	return res.RowsAffected(), nil
}
