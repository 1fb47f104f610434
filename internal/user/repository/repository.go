package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/envirosync/envirosync-backend/internal/common/db"
	"github.com/envirosync/envirosync-backend/internal/user/domain"
)

var (
	ErrUserNotFound          = pgx.ErrNoRows
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	List(ctx context.Context) ([]domain.Summary, error)
	Count(ctx context.Context) (int, error)
	UpdatePassword(ctx context.Context, id domain.ID, passwordHash, salt string) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, password_hash, salt, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		string(user.ID),
		user.Username,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
	}
	return db.HandleExecError(err, "create user", start)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, password_hash, salt, created_at
		 FROM users
		 WHERE username = $1`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by username", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, password_hash, salt, created_at
		 FROM users
		 WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Summary, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, username, created_at
		 FROM users
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list users", start)
	}
	defer rows.Close()

	var users []domain.Summary
	for rows.Next() {
		var u domain.Summary
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.MeasureQuery("list users", start)
	return users, nil
}

func (r *PgRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, db.HandleQueryError(err, nil, "count users", start)
	}
	db.MeasureQuery("count users", start)
	return count, nil
}

func (r *PgRepository) UpdatePassword(ctx context.Context, id domain.ID, passwordHash, salt string) error {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`UPDATE users SET password_hash = $1, salt = $2 WHERE id = $3`,
		passwordHash,
		salt,
		string(id),
	)
	if err != nil {
		return db.HandleExecError(err, "update user password", start)
	}
	if res.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	db.MeasureQuery("update user password", start)
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM users WHERE id = $1`,
		string(id),
	)
	if err != nil {
		return db.HandleExecError(err, "delete user", start)
	}
	if res.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	db.MeasureQuery("delete user", start)
	return nil
}
