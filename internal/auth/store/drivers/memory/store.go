// Package memory is the default, process-local store driver. State is lost
// on restart.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]domain.User // by id
	apiKeys     map[string]domain.APIKey
	resetTokens map[string]domain.ResetToken // by token hash

	// Now is the clock used for updated_at stamps.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		apiKeys:     make(map[string]domain.APIKey),
		resetTokens: make(map[string]domain.ResetToken),
		Now:         time.Now,
	}
}

func (s *Store) Users() store.Users             { return (*usersRepo)(s) }
func (s *Store) APIKeys() store.APIKeys         { return (*apiKeysRepo)(s) }
func (s *Store) ResetTokens() store.ResetTokens { return (*resetTokensRepo)(s) }

func (s *Store) ApplyMigrations() error     { return nil }
func (s *Store) Close() error               { return nil }
func (s *Store) Ping(context.Context) error { return nil }

func cloneUser(u domain.User) domain.User {
	u.SSOProviders = slices.Clone(u.SSOProviders)
	return u
}

type usersRepo Store

func (r *usersRepo) find(match func(domain.User) bool) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *usersRepo) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *usersRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *usersRepo) CreateUser(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.ID == u.ID || existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return store.ErrAlreadyExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

// update applies fn to the stored user under the write lock.
func (r *usersRepo) update(id string, fn func(*domain.User)) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.Now().UTC()
	r.users[id] = u
	return cloneUser(u), nil
}

func (r *usersRepo) RecordFailedLogin(_ context.Context, userID string, maxAttempts int, lockUntil time.Time) (domain.User, error) {
	return r.update(userID, func(u *domain.User) {
		u.LoginAttempts++
		if u.LoginAttempts >= maxAttempts {
			u.Status = domain.UserLocked
			until := lockUntil.UTC()
			u.LockedUntil = &until
		}
	})
}

func (r *usersRepo) RecordSuccessfulLogin(_ context.Context, userID string, at time.Time) error {
	_, err := r.update(userID, func(u *domain.User) {
		u.LoginAttempts = 0
		t := at.UTC()
		u.LastLoginAt = &t
	})
	return err
}

func (r *usersRepo) LockUser(_ context.Context, userID string, until time.Time) error {
	_, err := r.update(userID, func(u *domain.User) {
		u.Status = domain.UserLocked
		t := until.UTC()
		u.LockedUntil = &t
	})
	return err
}

func (r *usersRepo) UnlockUser(_ context.Context, userID string) error {
	_, err := r.update(userID, func(u *domain.User) {
		u.Status = domain.UserActive
		u.LockedUntil = nil
		u.LoginAttempts = 0
	})
	return err
}

func (r *usersRepo) UpdatePasswordHash(_ context.Context, userID string, newHash string) error {
	_, err := r.update(userID, func(u *domain.User) { u.PasswordHash = newHash })
	return err
}

func (r *usersRepo) UpdateMFA(_ context.Context, userID string, enabled bool, method domain.MFAMethod) error {
	_, err := r.update(userID, func(u *domain.User) {
		u.MFAEnabled = enabled
		u.MFAMethod = method
	})
	return err
}

func (r *usersRepo) AddSSOProvider(_ context.Context, userID string, provider string) error {
	_, err := r.update(userID, func(u *domain.User) {
		if !slices.Contains(u.SSOProviders, provider) {
			u.SSOProviders = append(u.SSOProviders, provider)
		}
	})
	return err
}
