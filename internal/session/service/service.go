package service

import (
	"context"
	"errors"
	"time"

	"github.com/envirosync/envirosync-backend/internal/common/clock"
	commoncrypto "github.com/envirosync/envirosync-backend/internal/common/crypto"
	commonerrors "github.com/envirosync/envirosync-backend/internal/common/errors"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
	"github.com/envirosync/envirosync-backend/internal/session/domain"
	sessionrepo "github.com/envirosync/envirosync-backend/internal/session/repository"
	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
)

type SessionService struct {
	repo   sessionrepo.Repository
	tokens commoncrypto.TokenGenerator
	clk    clock.Clock
	ttl    time.Duration
	log    *logger.Logger
}

func NewSessionService(
	repo sessionrepo.Repository,
	tokens commoncrypto.TokenGenerator,
	clk clock.Clock,
	ttl time.Duration,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		repo:   repo,
		tokens: tokens,
		clk:    clk,
		ttl:    ttl,
		log:    log,
	}
}

// CreateSession issues a fresh opaque token expiring at now + TTL. There is no
// cap on concurrent sessions per user.
func (s *SessionService) CreateSession(ctx context.Context, userID userdomain.ID) (string, time.Time, error) {
	token, err := s.tokens.NewToken()
	if err != nil {
		return "", time.Time{}, commonerrors.ErrInternal.WithCause(err)
	}

	expiresAt := s.clk.Now().Add(s.ttl)
	session := domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "create_session_failed",
		}).Errorf("failed to create session: %v", err)
		return "", time.Time{}, commonerrors.ErrInternal.WithCause(err)
	}

	metrics.SessionsCreated.Inc()
	return token, expiresAt, nil
}

// ValidateSession resolves a token to an identity. Missing and expired rows
// are the same non-exceptional outcome: (nil, nil). Expired rows are not
// deleted here; the sweeper reclaims them.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (*userdomain.Identity, error) {
	if token == "" {
		return nil, nil
	}

	found, err := s.repo.FindWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, sessionrepo.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, commonerrors.ErrInternal.WithCause(err)
	}

	// Valid strictly before expiresAt; at or after it the row counts as absent.
	if !s.clk.Now().Before(found.Session.ExpiresAt) {
		return nil, nil
	}

	identity := found.Identity
	return &identity, nil
}

// DeleteSession is idempotent: revoking an unknown token is not an error.
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return commonerrors.ErrInternal.WithCause(err)
	}
	metrics.SessionsRevoked.Inc()
	return nil
}

// DeleteAllForUser bulk-revokes, used by password change and user deletion.
func (s *SessionService) DeleteAllForUser(ctx context.Context, userID userdomain.ID) error {
	deleted, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return commonerrors.ErrInternal.WithCause(err)
	}
	if deleted > 0 {
		metrics.SessionsRevoked.Add(float64(deleted))
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"deleted": deleted,
			"action":  "sessions_bulk_revoked",
		}).Info("revoked all sessions for user")
	}
	return nil
}

// SweepExpired reclaims storage for rows past their expiry. Validation does
// not depend on it running.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.clk.Now())
	if err != nil {
		return 0, commonerrors.ErrInternal.WithCause(err)
	}
	if deleted > 0 {
		metrics.SessionsSweepDeleted.Add(float64(deleted))
	}
	return deleted, nil
}
