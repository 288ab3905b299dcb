package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRegistration = errors.New("invalid_registration")
	ErrDuplicateCredential = errors.New("duplicate_credential")
	ErrWeakPassword        = errors.New("weak_password")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrAccountLocked       = errors.New("account_locked")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrInvalidMFAMethod    = errors.New("invalid_mfa_method")

	ErrOTPNotFound  = errors.New("otp_not_found")
	ErrOTPExpired   = errors.New("otp_expired")
	ErrOTPExhausted = errors.New("otp_exhausted")
	ErrInvalidOTP   = errors.New("invalid_otp")

	ErrInvalidAPIKey     = errors.New("invalid_api_key")
	ErrInvalidResetToken = errors.New("invalid_reset_token")

	ErrSSOProviderUnsupported   = errors.New("sso_provider_unsupported")
	ErrSSOProviderNotConfigured = errors.New("sso_provider_not_configured")

	// ErrInvalidOrExpiredToken is the parent of every token failure; the
	// jwtx sentinels (or ErrTokenRevoked) are wrapped alongside it.
	ErrInvalidOrExpiredToken = errors.New("invalid_or_expired_token")
	ErrTokenRevoked          = fmt.Errorf("token_revoked: %w", ErrInvalidOrExpiredToken)
)
