//go:build e2e

package auth_test

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	svc := setupService(t)

	live, err := svc.client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := svc.client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Cache, "Redis should be reachable")
	require.Equal(t, "ok", ready.Checks.Database)
}

// TestRegisterLoginRefreshLogout walks the password flow end to end:
// register, login, rotate the refresh token, then log out.
func TestRegisterLoginRefreshLogout(t *testing.T) {
	svc := setupService(t)
	registerUser(t, svc, "alice", false)

	session, err := svc.client.AuthenticateWithPassword(t.Context(), "alice", testPassword)
	require.NoError(t, err)
	oldAccess := session.AccessToken()
	oldRefresh := session.RefreshToken()
	require.NotEmpty(t, oldAccess)
	require.NotEmpty(t, oldRefresh)

	rotated, err := svc.client.Refresh(t.Context(), oldRefresh)
	require.NoError(t, err)
	require.NotEqual(t, oldAccess, rotated.AccessToken, "Access token should be rotated")
	require.NotEqual(t, oldRefresh, rotated.RefreshToken, "Refresh token should be rotated")

	// The old refresh token is spent
	_, err = svc.client.Refresh(t.Context(), oldRefresh)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.CodeRefreshFailed)

	current := svc.client.NewSessionFromTokens(rotated.AccessToken, rotated.RefreshToken, rotated.ExpiresIn)
	_, err = current.ListAPIKeys(t.Context())
	require.NoError(t, err)

	require.NoError(t, current.Logout(t.Context()))

	// The logged out access token is blacklisted in Redis
	revoked := svc.client.NewSessionFromTokens(rotated.AccessToken, "", rotated.ExpiresIn)
	_, err = revoked.ListAPIKeys(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.CodeUnauthorized)
}

func TestLogin_WrongPasswordLocksAccount(t *testing.T) {
	svc := setupService(t)
	registerUser(t, svc, "bob", false)

	for i := 0; i < 3; i++ {
		_, err := svc.client.AuthenticateWithPassword(t.Context(), "bob", "WrongPass1!")
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.CodeLoginFailed)
	}

	_, err := svc.client.AuthenticateWithPassword(t.Context(), "bob", testPassword)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.CodeLoginFailed)
	require.Contains(t, err.Error(), "locked")
}

func TestMFALogin(t *testing.T) {
	svc := setupService(t)
	email := registerUser(t, svc, "carol", true)

	_, err := svc.client.AuthenticateWithPassword(t.Context(), "carol", testPassword)
	var mfa *authsdk.MFARequiredError
	require.True(t, errors.As(err, &mfa), "expected MFA challenge, got %v", err)
	require.Equal(t, "email", mfa.Method)

	// A wrong code uses up one attempt but leaves the OTP usable
	_, err = svc.client.AuthenticateWithOTP(t.Context(), email, "000000")
	assertAPIError(t, err, http.StatusBadRequest, authsdk.CodeInvalidOTP)

	session, err := svc.client.AuthenticateWithOTP(t.Context(), email, svc.otp(t, email))
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken())

	// Codes are single use
	_, err = svc.client.AuthenticateWithOTP(t.Context(), email, svc.otp(t, email))
	assertAPIError(t, err, http.StatusBadRequest, authsdk.CodeInvalidOTP)
}

// TestRefresh_ConcurrentSingleWinner presents one refresh token from many
// clients at once; the Redis-backed claim lets exactly one rotate it.
func TestRefresh_ConcurrentSingleWinner(t *testing.T) {
	svc := setupService(t)
	registerUser(t, svc, "dave", false)

	session, err := svc.client.AuthenticateWithPassword(t.Context(), "dave", testPassword)
	require.NoError(t, err)
	refresh := session.RefreshToken()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.client.Refresh(t.Context(), refresh); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one refresh should win")
}
