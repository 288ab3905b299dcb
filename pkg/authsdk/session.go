package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Session represents an authenticated session. Bearer sessions refresh the
// access token automatically when it is about to expire; API key sessions
// send the key with every request.
type Session struct {
	client *SDKClient
	apiKey string

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates a new authenticated session from a token response.
func newSession(client *SDKClient, tokens *TokenResponse) *Session {
	// Subtract 30 seconds buffer to refresh before actual expiry
	expiresAt := time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second)

	return &Session{
		client:       client,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		expiresAt:    expiresAt,
	}
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	tokens, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second)

	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Logout revokes the session's access token server-side. Bearer sessions only.
func (s *Session) Logout(ctx context.Context) error {
	if s.apiKey != "" {
		return fmt.Errorf("logout requires a bearer session")
	}
	if err := s.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return nil
}

// ============================================================================
// API Key Operations
// ============================================================================

// CreateAPIKey mints a key. The plaintext is only ever returned here.
func (s *Session) CreateAPIKey(ctx context.Context, req CreateAPIKeyRequest) (*CreateAPIKeyResponse, error) {
	var created CreateAPIKeyResponse
	if err := s.doJSON(ctx, http.MethodPost, "/auth/api-keys", req, &created, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAPIKeys returns the caller's keys, newest first.
func (s *Session) ListAPIKeys(ctx context.Context) ([]APIKeyInfo, error) {
	var keys []APIKeyInfo
	if err := s.doJSON(ctx, http.MethodGet, "/auth/api-keys", nil, &keys, http.StatusOK); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteAPIKey removes one of the caller's keys.
func (s *Session) DeleteAPIKey(ctx context.Context, id string) error {
	return s.doJSON(ctx, http.MethodDelete, "/auth/api-keys/"+url.PathEscape(id), nil, nil, http.StatusOK)
}
