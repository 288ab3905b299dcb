package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/google/uuid"
)

// APIKeyPrefix marks plaintext keys so they are recognisable in configs
// and secret scanners.
const APIKeyPrefix = "sk_"

type APIKeyService struct {
	Store store.Store
	Now   func() time.Time
}

// Generate creates a key for userID. The plaintext is only ever returned
// here; storage keeps its fingerprint.
func (s *APIKeyService) Generate(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, string, error) {
	secret, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	if err != nil {
		return "", "", err
	}
	plaintext := APIKeyPrefix + secret
	now := s.Now().UTC()

	key := domain.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		KeyHash:   cryptox.FingerprintToken(plaintext),
		Name:      strings.TrimSpace(name),
		Active:    true,
		CreatedAt: now,
	}
	if expiresIn != nil && *expiresIn > 0 {
		exp := now.Add(*expiresIn)
		key.ExpiresAt = &exp
	}

	if err := s.Store.APIKeys().CreateAPIKey(ctx, key); err != nil {
		return "", "", fmt.Errorf("create api key: %w", err)
	}

	slogx.FromContext(ctx).Info("api key created", "key_id", key.ID, "user_id", userID)
	return key.ID, plaintext, nil
}

// Validate resolves plaintext to its owner, stamping last use.
func (s *APIKeyService) Validate(ctx context.Context, plaintext string) (string, string, error) {
	if !strings.HasPrefix(plaintext, APIKeyPrefix) {
		return "", "", ErrInvalidAPIKey
	}

	key, err := s.Store.APIKeys().GetAPIKeyByHash(ctx, cryptox.FingerprintToken(plaintext))
	if errors.Is(err, store.ErrNotFound) {
		return "", "", ErrInvalidAPIKey
	}
	if err != nil {
		return "", "", err
	}

	now := s.Now()
	if !key.Usable(now) {
		return "", "", ErrInvalidAPIKey
	}
	if err := s.Store.APIKeys().TouchAPIKey(ctx, key.ID, now); err != nil {
		slogx.FromContext(ctx).Warn("failed to stamp api key usage", "key_id", key.ID, "error", err)
	}
	return key.UserID, key.ID, nil
}

// Revoke deactivates keyID. It reports false when the key does not exist or
// belongs to another user.
func (s *APIKeyService) Revoke(ctx context.Context, keyID, userID string) (bool, error) {
	return found(s.Store.APIKeys().RevokeAPIKey(ctx, keyID, userID))
}

// Delete removes keyID, with the same ownership rule as Revoke.
func (s *APIKeyService) Delete(ctx context.Context, keyID, userID string) (bool, error) {
	return found(s.Store.APIKeys().DeleteAPIKey(ctx, keyID, userID))
}

// List returns the user's keys without key material.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]domain.APIKeySummary, error) {
	keys, err := s.Store.APIKeys().ListAPIKeysByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.APIKeySummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Summary())
	}
	return out, nil
}

func found(err error) (bool, error) {
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
