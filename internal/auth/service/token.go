package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const (
	// DefaultAccessAudience is stamped on every access token.
	DefaultAccessAudience = "api"

	refreshUsedPrefix = "refresh:used:"
)

// TokenConfig holds what NewTokenService needs to build its signers.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	Audience      []string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

// TokenService issues, verifies, rotates and revokes access/refresh pairs.
// Access and refresh tokens are signed with different secrets, so neither
// verifies as the other.
type TokenService struct {
	AccessSigner    jwtx.Signer
	RefreshSigner   jwtx.Signer
	AccessVerifier  jwtx.Verifier
	RefreshVerifier jwtx.Verifier

	Blacklist *Blacklist
	Cache     cachex.KeyValueStore // refresh rotation claims
	Store     store.Store

	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	Now func() time.Time
}

var ErrSharedSecret = errors.New("access and refresh secrets must differ")

func NewTokenService(cfg TokenConfig, blacklist *Blacklist, cache cachex.KeyValueStore, st store.Store) (*TokenService, error) {
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSharedSecret
	}
	accessSigner, err := jwtx.NewSignerHS256(cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("access secret: %w", err)
	}
	refreshSigner, err := jwtx.NewSignerHS256(cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh secret: %w", err)
	}

	audience := cfg.Audience
	if len(audience) == 0 {
		audience = []string{DefaultAccessAudience}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = jwtx.DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	s := &TokenService{
		AccessSigner:  accessSigner,
		RefreshSigner: refreshSigner,
		Blacklist:     blacklist,
		Cache:         cache,
		Store:         st,
		Issuer:        cfg.Issuer,
		Audience:      audience,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		Now:           time.Now,
	}
	// Expiry checks read s.Now so they share the clock used for blacklist TTLs.
	now := func() time.Time { return s.Now() }
	s.AccessVerifier = jwtx.NewVerifierHS256(cfg.AccessSecret, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		Audience: audience,
		Use:      jwtx.UseAccess,
		Leeway:   cfg.Leeway,
		Now:      now,
	})
	s.RefreshVerifier = jwtx.NewVerifierHS256(cfg.RefreshSecret, jwtx.VerifyOptions{
		Issuer: cfg.Issuer,
		Use:    jwtx.UseRefresh,
		Leeway: cfg.Leeway,
		Now:    now,
	})
	return s, nil
}

// IssuePair mints a fresh access and refresh token for u, each with its
// own jti.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := s.Now()
	id := jwtx.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    []string{"user"},
	}

	access, err := s.AccessSigner.Sign(jwtx.NewClaims(jwtx.UseAccess, id, s.Issuer, s.Audience, s.AccessTTL, now))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.RefreshSigner.Sign(jwtx.NewClaims(jwtx.UseRefresh, id, s.Issuer, nil, s.RefreshTTL, now))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	slogx.FromContext(ctx).Debug("token pair issued", "user_id", u.ID)
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates an access token and rejects revoked ones.
func (s *TokenService) VerifyAccess(ctx context.Context, token string) (*jwtx.Claims, error) {
	return s.verify(ctx, s.AccessVerifier, token)
}

// VerifyRefresh validates a refresh token and rejects revoked ones.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (*jwtx.Claims, error) {
	return s.verify(ctx, s.RefreshVerifier, token)
}

func (s *TokenService) verify(ctx context.Context, v jwtx.Verifier, token string) (*jwtx.Claims, error) {
	claims, err := v.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, err)
	}
	if s.Blacklist.IsBlacklisted(ctx, token) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Refresh rotates a refresh token. The token is claimed with an atomic
// increment on its jti, so under concurrent use exactly one caller gets a
// new pair and the rest get ErrTokenRevoked.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	remaining := claims.Remaining(s.Now())
	n, err := s.Cache.Increment(ctx, refreshUsedPrefix+claims.ID, max(remaining, time.Second))
	if err != nil {
		return nil, fmt.Errorf("claim refresh token: %w", err)
	}
	if n > 1 {
		log.Warn("refresh token reuse rejected", "user_id", claims.Subject, "jti", claims.ID)
		return nil, ErrTokenRevoked
	}

	if err := s.Blacklist.Add(ctx, refreshToken, remaining); err != nil {
		return nil, fmt.Errorf("blacklist refresh token: %w", err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if u.Status == domain.UserLocked && !u.LockExpired(s.Now()) {
		return nil, ErrAccountLocked
	}

	return s.IssuePair(ctx, u)
}

// Revoke blacklists token for the rest of its lifetime. Whether it is an
// access or refresh token is decided by which secret verifies it. Already
// expired tokens need no entry.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.AccessVerifier.Verify(token)
	if err != nil {
		var rerr error
		claims, rerr = s.RefreshVerifier.Verify(token)
		if rerr != nil {
			if errors.Is(err, jwtx.ErrExpired) || errors.Is(rerr, jwtx.ErrExpired) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, err)
		}
	}

	if err := s.Blacklist.Add(ctx, token, claims.Remaining(s.Now())); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("token revoked", "user_id", claims.Subject, "use", claims.Use)
	return nil
}
