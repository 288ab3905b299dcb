package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the identity service.
// It provides access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new identity service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and returns a Session. Accounts with MFA
// enabled get an *MFARequiredError; finish with AuthenticateWithOTP.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.Login(ctx, LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.MFARequired {
		return nil, &MFARequiredError{Method: resp.MFAMethod, Message: resp.Message}
	}
	return newSession(c, &resp.TokenResponse), nil
}

// AuthenticateWithOTP completes an MFA login and returns a Session.
func (c *SDKClient) AuthenticateWithOTP(ctx context.Context, email, code string) (*Session, error) {
	resp, err := c.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: code})
	if err != nil {
		return nil, err
	}
	return newSession(c, &resp.TokenResponse), nil
}

// AuthenticateWithRefreshToken creates an authenticated session from an existing refresh token.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tokens, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokens), nil
}

// NewSessionFromTokens creates an authenticated session from existing tokens.
// The session will still perform auto-refresh when the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int64) *Session {
	return newSession(c, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// NewAPIKeySession returns a session that authenticates every request with
// an API key instead of a bearer token.
func (c *SDKClient) NewAPIKeySession(apiKey string) *Session {
	return &Session{client: c, apiKey: apiKey}
}

// MFARequiredError is returned by AuthenticateWithPassword when a second
// factor was requested. A code has already been sent by Method.
type MFARequiredError struct {
	Method  string
	Message string
}

func (e *MFARequiredError) Error() string {
	return "MFA required: method=" + e.Method
}
