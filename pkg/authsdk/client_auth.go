package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates an account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with a password. Check MFARequired on the result.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var login LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &login, http.StatusOK); err != nil {
		return nil, err
	}
	return &login, nil
}

// VerifyOTP exchanges an emailed code for the user and a token pair.
func (c *SDKClient) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	var login LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", req, &login, http.StatusOK); err != nil {
		return nil, err
	}
	return &login, nil
}

// Refresh rotates refreshToken. The old token is dead afterwards.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var tokens TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", req, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// RequestPasswordReset asks for a reset link. The answer is the same
// whether or not the email belongs to an account.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/password-reset", PasswordResetRequest{Email: email}, nil, http.StatusOK)
}

// ConfirmPasswordReset sets a new password using a reset token.
func (c *SDKClient) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	req := PasswordResetConfirmRequest{Token: token, NewPassword: newPassword}
	return c.doJSON(ctx, http.MethodPost, "/auth/password-reset/confirm", req, nil, http.StatusOK)
}

// SSOAuthorizationURL returns the provider URL to redirect the user to.
func (c *SDKClient) SSOAuthorizationURL(ctx context.Context, provider string) (*SSOResponse, error) {
	var sso SSOResponse
	path := "/auth/sso/" + url.PathEscape(provider)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sso, http.StatusOK); err != nil {
		return nil, err
	}
	return &sso, nil
}
