package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
)

type resetTokensRepo Store

func (r *resetTokensRepo) CreateResetToken(_ context.Context, t domain.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resetTokens[t.TokenHash]; ok {
		return store.ErrAlreadyExists
	}
	r.resetTokens[t.TokenHash] = t
	return nil
}

func (r *resetTokensRepo) GetResetToken(_ context.Context, hash string) (domain.ResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.resetTokens[hash]
	if !ok {
		return domain.ResetToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *resetTokensRepo) MarkResetTokenUsed(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.resetTokens[hash]
	if !ok || t.Used {
		return store.ErrNotFound
	}
	t.Used = true
	r.resetTokens[hash] = t
	return nil
}

func (r *resetTokensRepo) DeleteResetToken(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.resetTokens, hash)
	return nil
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for hash, t := range r.resetTokens {
		if t.Used || !now.Before(t.ExpiresAt) {
			delete(r.resetTokens, hash)
			n++
		}
	}
	return n, nil
}
