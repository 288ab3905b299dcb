package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "auth-service"}}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("auth-service"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("billing-service"), jwtx.ErrIssuer)
	})
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: []string{"api", "media"}}}

	require.NoError(t, c.ValidateAudience([]string{"api"}))
	require.NoError(t, c.ValidateAudience([]string{"foo", "media"}))
	require.NoError(t, c.ValidateAudience(nil))
	require.ErrorIs(t, c.ValidateAudience([]string{"admin"}), jwtx.ErrAudience)
}

func TestValidateUse(t *testing.T) {
	c := &jwtx.Claims{Use: jwtx.UseRefresh}

	require.NoError(t, c.ValidateUse(jwtx.UseRefresh))
	require.NoError(t, c.ValidateUse(""))
	require.ErrorIs(t, c.ValidateUse(jwtx.UseAccess), jwtx.ErrInvalidClaim)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("missing exp", func(t *testing.T) {
		require.ErrorIs(t, (&jwtx.Claims{}).ValidateExpiry(), jwtx.ErrInvalidClaim)
	})
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid with leeway", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		}}
		require.NoError(t, c.ValidateExpiryWithLeeway(30*time.Second))
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiryWithLeeway(30*time.Second), jwtx.ErrExpired)
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	id := jwtx.Identity{UserID: "u1", Username: "alice", Email: "a@example.com", Roles: []string{"user"}}

	access := jwtx.NewClaims(jwtx.UseAccess, id, "auth-service", []string{"api"}, time.Minute, now)
	require.Equal(t, "u1", access.Subject)
	require.Equal(t, []string{"user"}, access.Roles)
	require.Equal(t, jwt.ClaimStrings{"api"}, access.Audience)
	require.Equal(t, time.Minute, access.Remaining(now))
	require.NotEmpty(t, access.ID)

	refresh := jwtx.NewClaims(jwtx.UseRefresh, id, "auth-service", nil, time.Hour, now)
	require.Nil(t, refresh.Roles)
	require.Empty(t, refresh.Audience)
	require.NotEqual(t, access.ID, refresh.ID)
	require.Zero(t, refresh.Remaining(now.Add(2*time.Hour)))
}

func TestValidateExpiryAt(t *testing.T) {
	issued := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Minute)),
	}}

	require.ErrorIs(t, c.ValidateExpiryAt(issued.Add(-time.Minute), 0), jwtx.ErrNotYetValid)
	require.NoError(t, c.ValidateExpiryAt(issued.Add(30*time.Second), 0))
	require.ErrorIs(t, c.ValidateExpiryAt(issued.Add(2*time.Minute), 0), jwtx.ErrExpired)
	require.NoError(t, c.ValidateExpiryAt(issued.Add(70*time.Second), 30*time.Second))
}
