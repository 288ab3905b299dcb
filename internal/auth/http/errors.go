package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// Error codes specific to the auth endpoints. The generic ones live in httpx.
var (
	errWeakPassword = httpx.NewError(http.StatusBadRequest, authsdk.CodeWeakPassword,
		"Password must contain uppercase, lowercase, number, and special character")
	errRegistrationFailed = httpx.NewError(http.StatusBadRequest, authsdk.CodeRegistrationFailed, "Registration failed")
	errLoginFailed        = httpx.NewError(http.StatusUnauthorized, authsdk.CodeLoginFailed, "Invalid username or password")
	errInvalidOTP         = httpx.NewError(http.StatusBadRequest, authsdk.CodeInvalidOTP, "OTP verification failed")
	errUserNotFound       = httpx.NewError(http.StatusBadRequest, authsdk.CodeUserNotFound, "User not found")
	errRefreshFailed      = httpx.NewError(http.StatusUnauthorized, authsdk.CodeRefreshFailed, "Refresh token is invalid or expired")
	errAPIKeyNotFound     = httpx.NewError(http.StatusNotFound, authsdk.CodeAPIKeyNotFound, "API key not found")
	errInvalidResetToken  = httpx.NewError(http.StatusBadRequest, authsdk.CodeInvalidResetToken, "Reset token is invalid or expired")
	errSSOUnsupported     = httpx.NewError(http.StatusBadRequest, authsdk.CodeSSOUnsupported, "SSO provider is not supported")
	errSSONotConfigured   = httpx.NewError(http.StatusBadRequest, authsdk.CodeSSONotConfigured, "SSO provider is not configured")
)

// validationError renders an authsdk field error map.
func validationError(errs map[string]string) error {
	return httpx.ErrValidation.WithMessage("validation failed for some fields").WithDetails(errs)
}

func registerError(err error) error {
	switch {
	case errors.Is(err, service.ErrWeakPassword):
		return errWeakPassword
	case errors.Is(err, service.ErrDuplicateCredential):
		return errRegistrationFailed.WithMessage("Username or email already registered")
	case errors.Is(err, service.ErrInvalidMFAMethod):
		return errRegistrationFailed.WithMessage("Unsupported MFA method")
	case errors.Is(err, service.ErrInvalidRegistration):
		return errRegistrationFailed
	}
	return err
}

func loginError(err error) error {
	switch {
	case errors.Is(err, service.ErrAccountLocked) && errors.Is(err, service.ErrInvalidCredentials):
		return errLoginFailed.WithMessage("Too many failed attempts. Account has been locked")
	case errors.Is(err, service.ErrAccountLocked):
		return errLoginFailed.WithMessage("Account is locked. Try again later")
	case errors.Is(err, service.ErrInvalidCredentials):
		return errLoginFailed
	}
	return err
}

func otpError(err error) error {
	switch {
	case errors.Is(err, service.ErrOTPExpired):
		return errInvalidOTP.WithMessage("OTP has expired")
	case errors.Is(err, service.ErrOTPExhausted):
		return errInvalidOTP.WithMessage("Too many attempts. Request a new OTP")
	case errors.Is(err, service.ErrOTPNotFound), errors.Is(err, service.ErrInvalidOTP):
		return errInvalidOTP
	}
	return err
}

func refreshError(err error) error {
	switch {
	case errors.Is(err, service.ErrTokenRevoked):
		return errRefreshFailed.WithMessage("Refresh token has been revoked")
	case errors.Is(err, service.ErrAccountLocked):
		return errRefreshFailed.WithMessage("Account is locked")
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		return errRefreshFailed
	}
	return err
}

func resetError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidResetToken):
		return errInvalidResetToken
	case errors.Is(err, service.ErrUserNotFound):
		return errUserNotFound
	case errors.Is(err, service.ErrWeakPassword):
		return errWeakPassword
	}
	return err
}

func ssoError(err error) error {
	switch {
	case errors.Is(err, service.ErrSSOProviderUnsupported):
		return errSSOUnsupported
	case errors.Is(err, service.ErrSSOProviderNotConfigured):
		return errSSONotConfigured
	}
	return err
}

func toUserResponse(u domain.User) *authsdk.UserResponse {
	return &authsdk.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		MFAEnabled:  u.MFAEnabled,
		MFAMethod:   string(u.MFAMethod),
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toTokenResponse(p *domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
	}
}
