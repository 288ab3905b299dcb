package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

const (
	DefaultOTPLength            = 6
	DefaultOTPExpiry            = 5 * time.Minute
	DefaultOTPMaxAttempts       = 3
	DefaultOTPVerifiedRetention = 15 * time.Minute

	otpIssuer         = "identity"
	otpRecordPrefix   = "otp:record:"
	otpAttemptsPrefix = "otp:attempts:"
)

// OTPService issues and checks short-lived numeric codes for an email.
// Each record holds a fresh HOTP secret; the code is derived from it at
// counter zero, so the code itself is never stored.
//
// Attempts are counted with an atomic cache increment. A wrong code bumps
// the counter first and then compares it with MaxAttempts: MaxAttempts-1
// wrong codes leave the record usable, the MaxAttempts-th deletes it.
type OTPService struct {
	Cache             cachex.KeyValueStore
	Length            int
	Expiry            time.Duration
	MaxAttempts       int
	VerifiedRetention time.Duration

	Now func() time.Time
}

func NewOTPService(cache cachex.KeyValueStore, length int, expiry time.Duration, maxAttempts int) *OTPService {
	if length <= 0 {
		length = DefaultOTPLength
	}
	if expiry <= 0 {
		expiry = DefaultOTPExpiry
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultOTPMaxAttempts
	}
	return &OTPService{
		Cache:             cache,
		Length:            length,
		Expiry:            expiry,
		MaxAttempts:       maxAttempts,
		VerifiedRetention: DefaultOTPVerifiedRetention,
		Now:               time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *OTPService) opts() hotp.ValidateOpts {
	return hotp.ValidateOpts{Digits: otp.Digits(s.Length), Algorithm: otp.AlgorithmSHA1}
}

func (s *OTPService) keys(email string) (record, attempts string) {
	email = normalizeEmail(email)
	return otpRecordPrefix + email, otpAttemptsPrefix + email
}

// Generate replaces any existing record for email and returns the new code
// with its lifetime.
func (s *OTPService) Generate(ctx context.Context, email string) (string, time.Duration, error) {
	recordKey, attemptsKey := s.keys(email)

	key, err := hotp.Generate(hotp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: normalizeEmail(email),
		Digits:      otp.Digits(s.Length),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", 0, fmt.Errorf("generate otp secret: %w", err)
	}
	code, err := hotp.GenerateCodeCustom(key.Secret(), 0, s.opts())
	if err != nil {
		return "", 0, fmt.Errorf("derive otp code: %w", err)
	}

	if err := s.Cache.Delete(ctx, recordKey, attemptsKey); err != nil {
		return "", 0, err
	}

	now := s.Now().UTC()
	rec := domain.OTPRecord{
		ID:        idx.NewAt(now).String(),
		Email:     normalizeEmail(email),
		Secret:    key.Secret(),
		ExpiresAt: now.Add(s.Expiry),
		CreatedAt: now,
	}
	if err := cachex.SetJSON(ctx, s.Cache, recordKey, rec, s.Expiry); err != nil {
		return "", 0, err
	}

	slogx.FromContext(ctx).Debug("otp generated", "otp_id", rec.ID)
	return code, s.Expiry, nil
}

func (s *OTPService) attempts(ctx context.Context, attemptsKey string) (int, error) {
	raw, ok, err := s.Cache.Get(ctx, attemptsKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// Verify checks code against the pending record for email. The record is
// deleted when it has expired or its attempts are spent.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	recordKey, attemptsKey := s.keys(email)
	log := slogx.FromContext(ctx)

	var rec domain.OTPRecord
	ok, err := cachex.GetJSON(ctx, s.Cache, recordKey, &rec)
	if err != nil {
		return err
	}
	if !ok || rec.Verified {
		return ErrOTPNotFound
	}

	now := s.Now()
	if !now.Before(rec.ExpiresAt) {
		_ = s.Cache.Delete(ctx, recordKey, attemptsKey)
		return ErrOTPExpired
	}

	used, err := s.attempts(ctx, attemptsKey)
	if err != nil {
		return err
	}
	if used >= s.MaxAttempts {
		_ = s.Cache.Delete(ctx, recordKey, attemptsKey)
		return ErrOTPExhausted
	}

	valid, err := hotp.ValidateCustom(strings.TrimSpace(code), 0, rec.Secret, s.opts())
	if err != nil && !errors.Is(err, otp.ErrValidateInputInvalidLength) {
		return fmt.Errorf("validate otp: %w", err)
	}
	if valid {
		rec.Verified = true
		ttl := max(rec.ExpiresAt.Sub(now), s.VerifiedRetention)
		if err := cachex.SetJSON(ctx, s.Cache, recordKey, rec, ttl); err != nil {
			return err
		}
		_ = s.Cache.Delete(ctx, attemptsKey)
		log.Debug("otp verified", "otp_id", rec.ID)
		return nil
	}

	n, err := s.Cache.Increment(ctx, attemptsKey, rec.ExpiresAt.Sub(now))
	if err != nil {
		return err
	}
	if n >= int64(s.MaxAttempts) {
		_ = s.Cache.Delete(ctx, recordKey, attemptsKey)
		log.Warn("otp attempts exhausted", "otp_id", rec.ID)
		return ErrOTPExhausted
	}
	return ErrInvalidOTP
}

// IsVerified reports whether email holds a verified record.
func (s *OTPService) IsVerified(ctx context.Context, email string) bool {
	recordKey, _ := s.keys(email)

	var rec domain.OTPRecord
	ok, err := cachex.GetJSON(ctx, s.Cache, recordKey, &rec)
	return err == nil && ok && rec.Verified
}

// Clear removes every OTP record for email.
func (s *OTPService) Clear(ctx context.Context, email string) error {
	recordKey, attemptsKey := s.keys(email)
	return s.Cache.Delete(ctx, recordKey, attemptsKey)
}
