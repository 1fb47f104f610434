package service

import (
	"context"
	"errors"

	"github.com/envirosync/envirosync-backend/internal/common/clock"
	commoncrypto "github.com/envirosync/envirosync-backend/internal/common/crypto"
	commonerrors "github.com/envirosync/envirosync-backend/internal/common/errors"
	"github.com/envirosync/envirosync-backend/internal/common/logger"
	"github.com/envirosync/envirosync-backend/internal/user/domain"
	userrepo "github.com/envirosync/envirosync-backend/internal/user/repository"
)

const (
	UsernameMinLength = 3
	PasswordMinLength = 4
)

// SessionRevoker is the one edge the credential side has into the session
// side: password changes and user deletion cascade into bulk revocation.
type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID domain.ID) error
}

type UserService struct {
	repo        userrepo.Repository
	sessions    SessionRevoker
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clk         clock.Clock
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	sessions SessionRevoker,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		sessions:    sessions,
		hasher:      hasher,
		idGenerator: idGenerator,
		clk:         clk,
		log:         log,
	}
}

func (s *UserService) CreateUser(ctx context.Context, username, password string) (domain.ID, error) {
	if len(username) < UsernameMinLength {
		return "", commonerrors.ErrUsernameTooShort
	}
	if len(password) < PasswordMinLength {
		return "", commonerrors.ErrPasswordTooShort
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "create_user_hash_failed",
		}).Errorf("create user failed: %v", err)
		return "", commonerrors.ErrInternal.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return "", commonerrors.ErrInternal.WithCause(err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    s.clk.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "create_user_conflict",
			}).Warn("create user failed: username taken")
			return "", commonerrors.ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "create_user_store_failed",
		}).Errorf("create user failed: %v", err)
		return "", commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"user_id":  id,
		"action":   "create_user_success",
	}).Info("user created")

	return user.ID, nil
}

// VerifyCredentials resolves a username/password pair to an identity. A missing
// user and a wrong password return the same error so the two cases are
// indistinguishable to the caller.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (domain.Identity, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "verify_user_not_found",
			}).Warn("login failed")
			return domain.Identity{}, commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "verify_fetch_failed",
		}).Errorf("login failed: %v", err)
		return domain.Identity{}, commonerrors.ErrInternal.WithCause(err)
	}

	if !s.hasher.Compare(user.PasswordHash, user.Salt, password) {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "verify_invalid_password",
		}).Warn("login failed")
		return domain.Identity{}, commonerrors.ErrInvalidCredentials
	}

	return domain.Identity{ID: user.ID, Username: user.Username}, nil
}

// UpdatePassword rehashes under a fresh salt and revokes every session the
// user holds, including the one that made the change.
func (s *UserService) UpdatePassword(ctx context.Context, id domain.ID, newPassword string) error {
	if len(newPassword) < PasswordMinLength {
		return commonerrors.ErrPasswordTooShort
	}

	// Resolve the user before hashing; an unknown id fails fast instead of
	// paying for a key derivation.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return commonerrors.ErrUserNotFound
		}
		return commonerrors.ErrInternal.WithCause(err)
	}

	hash, salt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return commonerrors.ErrInternal.WithCause(err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash, salt); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return commonerrors.ErrUserNotFound
		}
		return commonerrors.ErrInternal.WithCause(err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "update_password_revoke_failed",
		}).Errorf("failed to revoke sessions after password change: %v", err)
		return commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(id),
		"action":  "update_password_success",
	}).Info("password updated, all sessions revoked")

	return nil
}

// DeleteUser refuses to empty the store: the last remaining user is protected.
func (s *UserService) DeleteUser(ctx context.Context, id domain.ID) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return commonerrors.ErrInternal.WithCause(err)
	}
	if count <= 1 {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "delete_user_last_user",
		}).Warn("refused to delete the last user")
		return commonerrors.ErrLastUser
	}

	// The sessions FK cascades on user deletion; revoking first keeps the
	// invariant even on schemas restored without the constraint.
	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		return commonerrors.ErrInternal.WithCause(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return commonerrors.ErrUserNotFound
		}
		return commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(id),
		"action":  "delete_user_success",
	}).Info("user deleted")

	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.Summary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}
	return users, nil
}
