package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/envirosync/envirosync-backend/internal/common/clock"
	commoncrypto "github.com/envirosync/envirosync-backend/internal/common/crypto"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/user/domain"
	userrepo "github.com/envirosync/envirosync-backend/internal/user/repository"
)

// The well-known initial credentials. Seeding is loud on purpose: an operator
// must know this account exists and change its password.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	salt TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions (user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);
`

// EnsureSchema creates the two tables and their indexes. It runs once at
// process start, explicitly, rather than hiding inside store access.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SeedDefaultAdmin creates the default administrative account when the store
// holds zero users. The minimum-user invariant depends on this: the store is
// never left empty after bootstrap.
func SeedDefaultAdmin(
	ctx context.Context,
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, salt, err := hasher.Hash(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	id, err := idGenerator.NewID()
	if err != nil {
		return fmt.Errorf("failed to generate default admin id: %w", err)
	}

	err = repo.Create(ctx, domain.User{
		ID:           domain.ID(id),
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    clk.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.WithFields(ctx, logger.Fields{
		"username": DefaultAdminUsername,
		"action":   "bootstrap_default_admin",
	}).Warnf("default admin user created with the well-known initial password; change it immediately")

	return nil
}
