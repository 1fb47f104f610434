package service

import (
	"context"
	"fmt"

	"github.com/envirosync/envirosync-backend/internal/user/domain"
	userrepo "github.com/envirosync/envirosync-backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user domain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	findByIDFunc       func(ctx context.Context, id domain.ID) (domain.User, error)
	listFunc           func(ctx context.Context) ([]domain.Summary, error)
	countFunc          func(ctx context.Context) (int, error)
	updatePasswordFunc func(ctx context.Context, id domain.ID, hash, salt string) error
	deleteFunc         func(ctx context.Context, id domain.ID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.Summary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id domain.ID, hash, salt string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash, salt)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockSessionRevoker struct {
	deleteAllForUserFunc func(ctx context.Context, userID domain.ID) error
	revoked              []domain.ID
}

func (m *mockSessionRevoker) DeleteAllForUser(ctx context.Context, userID domain.ID) error {
	m.revoked = append(m.revoked, userID)
	if m.deleteAllForUserFunc != nil {
		return m.deleteAllForUserFunc(ctx, userID)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, string, error)
	compareFunc func(hash, salt, password string) bool
}

func (m *mockHasher) Hash(password string) (string, string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, "salt_" + password, nil
}

func (m *mockHasher) Compare(hash, salt, password string) bool {
	if m.compareFunc != nil {
		return m.compareFunc(hash, salt, password)
	}
	return hash == "hashed_"+password
}

type mockIDGenerator struct {
	next int
}

func (m *mockIDGenerator) NewID() (string, error) {
	m.next++
	return fmt.Sprintf("id-%d", m.next), nil
}
