package memory

import (
	"context"
	"slices"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

type apiKeysRepo Store

func (r *apiKeysRepo) CreateAPIKey(_ context.Context, k domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.apiKeys {
		if existing.ID == k.ID || existing.KeyHash == k.KeyHash {
			return store.ErrAlreadyExists
		}
	}
	r.apiKeys[k.ID] = k
	return nil
}

func (r *apiKeysRepo) GetAPIKeyByHash(_ context.Context, hash string) (domain.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.apiKeys {
		if k.KeyHash == hash {
			return k, nil
		}
	}
	return domain.APIKey{}, store.ErrNotFound
}

func (r *apiKeysRepo) TouchAPIKey(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.apiKeys[id]
	if !ok {
		return store.ErrNotFound
	}
	t := at.UTC()
	k.LastUsedAt = &t
	r.apiKeys[id] = k
	return nil
}

func (r *apiKeysRepo) ListAPIKeysByUser(_ context.Context, userID string) ([]domain.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.APIKey
	for _, k := range r.apiKeys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	slices.SortFunc(out, func(a, b domain.APIKey) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *apiKeysRepo) owned(id, userID string) (domain.APIKey, bool) {
	k, ok := r.apiKeys[id]
	return k, ok && k.UserID == userID
}

func (r *apiKeysRepo) RevokeAPIKey(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.owned(id, userID)
	if !ok {
		return store.ErrNotFound
	}
	k.Active = false
	r.apiKeys[id] = k
	return nil
}

func (r *apiKeysRepo) DeleteAPIKey(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(id, userID); !ok {
		return store.ErrNotFound
	}
	delete(r.apiKeys, id)
	return nil
}

func (r *apiKeysRepo) DeleteExpiredAPIKeys(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, k := range r.apiKeys {
		if k.ExpiresAt != nil && !now.Before(*k.ExpiresAt) {
			delete(r.apiKeys, id)
			n++
		}
	}
	return n, nil
}
