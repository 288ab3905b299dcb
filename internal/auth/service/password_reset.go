package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

const DefaultResetTokenTTL = time.Hour

// PasswordResetService issues single-use reset tokens. Tokens are stored
// by fingerprint; a used token stays used.
type PasswordResetService struct {
	Store store.Store
	TTL   time.Duration
	Now   func() time.Time
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultResetTokenTTL
	}
	return s.TTL
}

// Generate mints a 256-bit token for userID.
func (s *PasswordResetService) Generate(ctx context.Context, userID string) (string, time.Duration, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", 0, err
	}
	now := s.Now().UTC()
	ttl := s.ttl()

	err = s.Store.ResetTokens().CreateResetToken(ctx, domain.ResetToken{
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}

// Validate returns the user a live, unused token belongs to. Expired
// tokens are deleted on sight.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (string, error) {
	hash := cryptox.FingerprintToken(token)

	rt, err := s.Store.ResetTokens().GetResetToken(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidResetToken
	}
	if err != nil {
		return "", err
	}

	if !s.Now().Before(rt.ExpiresAt) {
		_ = s.Store.ResetTokens().DeleteResetToken(ctx, hash)
		return "", ErrInvalidResetToken
	}
	if rt.Used {
		return "", ErrInvalidResetToken
	}
	return rt.UserID, nil
}

// MarkUsed consumes token. Only one caller can consume a given token; the
// rest get ErrInvalidResetToken.
func (s *PasswordResetService) MarkUsed(ctx context.Context, token string) error {
	err := s.Store.ResetTokens().MarkResetTokenUsed(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken
	}
	return err
}

// Revoke deletes token whether or not it was used.
func (s *PasswordResetService) Revoke(ctx context.Context, token string) error {
	return s.Store.ResetTokens().DeleteResetToken(ctx, cryptox.FingerprintToken(token))
}
