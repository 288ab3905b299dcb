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
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const (
	DefaultMaxLoginAttempts = 5
	DefaultLockDuration     = 15 * time.Minute
)

// UserService owns credentials and the lockout state machine:
//
//	active --(MaxLoginAttempts consecutive failures)--> locked
//	locked --(LockDuration elapsed, seen on next login)--> active
//
// Auto-unlock is lazy; nothing runs in the background.
type UserService struct {
	Store            store.Store
	Hasher           *cryptox.PasswordHasher
	Notifier         Notifier
	MaxLoginAttempts int
	LockDuration     time.Duration

	Now func() time.Time
}

type RegisterParams struct {
	Username   string
	Email      string
	Password   string
	Phone      string
	MFAEnabled bool
	MFAMethod  domain.MFAMethod
}

type LoginResult struct {
	User        domain.User
	MFARequired bool
	MFAMethod   domain.MFAMethod
}

// CheckPasswordStrength applies the password policy.
func (s *UserService) CheckPasswordStrength(p string) bool {
	return cryptox.IsPasswordStrong(p)
}

func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = normalizeEmail(p.Email)
	if p.Username == "" || p.Email == "" || !strings.Contains(p.Email, "@") {
		return domain.User{}, ErrInvalidRegistration
	}
	if p.MFAMethod == "" {
		p.MFAMethod = domain.MFANone
	}
	if !p.MFAMethod.Valid() {
		return domain.User{}, ErrInvalidMFAMethod
	}
	if p.MFAEnabled && p.MFAMethod == domain.MFANone {
		p.MFAMethod = domain.MFAEmail
	}
	if !s.CheckPasswordStrength(p.Password) {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := s.Hasher.Hash(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(p.Phone),
		MFAEnabled:   p.MFAEnabled,
		MFAMethod:    p.MFAMethod,
		Status:       domain.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateCredential
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID)
	if s.Notifier != nil {
		_ = s.Notifier.SendWelcome(ctx, u.Email, u.Username)
	}
	return u, nil
}

// Login checks username and password against the lockout state machine.
// A failure that trips the lock wraps both ErrInvalidCredentials and
// ErrAccountLocked.
func (s *UserService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	users := s.Store.Users()
	now := s.Now()

	u, err := users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if u.Status == domain.UserLocked {
		if !u.LockExpired(now) {
			return LoginResult{}, ErrAccountLocked
		}
		if err := users.UnlockUser(ctx, u.ID); err != nil {
			return LoginResult{}, err
		}
		log.Info("account auto-unlocked", "user_id", u.ID)
		u.Status = domain.UserActive
		u.LockedUntil = nil
		u.LoginAttempts = 0
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, err
		}
		return LoginResult{}, s.recordFailure(ctx, u, now)
	}

	if err := users.RecordSuccessfulLogin(ctx, u.ID, now); err != nil {
		return LoginResult{}, err
	}
	at := now.UTC()
	u.LastLoginAt = &at
	u.LoginAttempts = 0

	mfa := u.MFAEnabled && u.MFAMethod != domain.MFANone
	return LoginResult{User: u, MFARequired: mfa, MFAMethod: u.MFAMethod}, nil
}

func (s *UserService) recordFailure(ctx context.Context, u domain.User, now time.Time) error {
	updated, err := s.Store.Users().RecordFailedLogin(ctx, u.ID, s.maxAttempts(), now.Add(s.lockDuration()))
	if err != nil {
		return err
	}
	if updated.Status != domain.UserLocked {
		return ErrInvalidCredentials
	}

	slogx.FromContext(ctx).Warn("account locked after failed logins",
		"user_id", u.ID, "attempts", updated.LoginAttempts)
	if s.Notifier != nil && updated.LockedUntil != nil {
		_ = s.Notifier.SendAccountLocked(ctx, u.Email, *updated.LockedUntil)
	}
	return fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrAccountLocked)
}

func (s *UserService) maxAttempts() int {
	if s.MaxLoginAttempts <= 0 {
		return DefaultMaxLoginAttempts
	}
	return s.MaxLoginAttempts
}

func (s *UserService) lockDuration() time.Duration {
	if s.LockDuration <= 0 {
		return DefaultLockDuration
	}
	return s.LockDuration
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Hasher.Verify(current, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}
	return s.setPassword(ctx, userID, next)
}

// ResetPassword replaces the password without the current one; the caller
// holds a consumed reset token as proof.
func (s *UserService) ResetPassword(ctx context.Context, userID, next string) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.setPassword(ctx, userID, next)
}

func (s *UserService) setPassword(ctx context.Context, userID, next string) error {
	if !s.CheckPasswordStrength(next) {
		return ErrWeakPassword
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

// SetMFA turns MFA on or off. Enabling without a method defaults to email.
func (s *UserService) SetMFA(ctx context.Context, userID string, enabled bool, method domain.MFAMethod) error {
	switch {
	case !enabled:
		method = domain.MFANone
	case method == "" || method == domain.MFANone:
		method = domain.MFAEmail
	case !method.Valid():
		return ErrInvalidMFAMethod
	}
	return mapUserErr(s.Store.Users().UpdateMFA(ctx, userID, enabled, method))
}

// Lock locks the user for d regardless of failed attempts.
func (s *UserService) Lock(ctx context.Context, userID string, d time.Duration) error {
	return mapUserErr(s.Store.Users().LockUser(ctx, userID, s.Now().Add(d)))
}

func (s *UserService) Unlock(ctx context.Context, userID string) error {
	return mapUserErr(s.Store.Users().UnlockUser(ctx, userID))
}

func (s *UserService) LinkSSOProvider(ctx context.Context, userID, provider string) error {
	return mapUserErr(s.Store.Users().AddSSOProvider(ctx, userID, provider))
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	return u, mapUserErr(err)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	return u, mapUserErr(err)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	return u, mapUserErr(err)
}

func mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
