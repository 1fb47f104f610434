package authapi

import (
	"context"
	"sync"
	"time"

	sessiondomain "github.com/envirosync/envirosync-backend/internal/session/domain"
	sessionrepo "github.com/envirosync/envirosync-backend/internal/session/repository"
	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
	userrepo "github.com/envirosync/envirosync-backend/internal/user/repository"
)

// memUserRepo is a map-backed userrepo.Repository preserving insertion order,
// so List behaves like the database's created_at ordering.
type memUserRepo struct {
	mu          sync.Mutex
	users       map[userdomain.ID]userdomain.User
	order       []userdomain.ID
	sawDeadline bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[userdomain.ID]userdomain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return userrepo.ErrUsernameAlreadyExists
		}
	}
	r.users[user.ID] = user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := ctx.Deadline(); ok {
		r.sawDeadline = true
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]userdomain.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]userdomain.Summary, 0, len(r.order))
	for _, id := range r.order {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		out = append(out, userdomain.Summary{
			ID:        u.ID,
			Username:  u.Username,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

func (r *memUserRepo) storeCallsSawDeadline() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sawDeadline
}

func (r *memUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id userdomain.ID, passwordHash, salt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.Salt = salt
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id userdomain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return userrepo.ErrUserNotFound
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// memSessionRepo joins against memUserRepo the way the real repository joins
// sessions to users.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]sessiondomain.Session
	users    *memUserRepo
}

func newMemSessionRepo(users *memUserRepo) *memSessionRepo {
	return &memSessionRepo{
		sessions: make(map[string]sessiondomain.Session),
		users:    users,
	}
}

func (r *memSessionRepo) Create(ctx context.Context, session sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
	return nil
}

func (r *memSessionRepo) FindWithUser(ctx context.Context, token string) (sessionrepo.SessionWithUser, error) {
	r.mu.Lock()
	s, ok := r.sessions[token]
	r.mu.Unlock()
	if !ok {
		return sessionrepo.SessionWithUser{}, sessionrepo.ErrSessionNotFound
	}
	u, err := r.users.FindByID(ctx, s.UserID)
	if err != nil {
		return sessionrepo.SessionWithUser{}, sessionrepo.ErrSessionNotFound
	}
	return sessionrepo.SessionWithUser{
		Session: s,
		Identity: userdomain.Identity{
			ID:       u.ID,
			Username: u.Username,
		},
	}, nil
}

func (r *memSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memSessionRepo) DeleteByUserID(ctx context.Context, userID userdomain.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
