package http_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	live := decode[authsdk.HealthResponse](t, s.do(t, http.MethodGet, "/livez", nil), http.StatusOK).Data
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready := decode[authsdk.HealthResponse](t, s.do(t, http.MethodGet, "/readyz", nil), http.StatusOK).Data
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, &authsdk.HealthChecks{Database: "ok", Cache: "ok"}, ready.Checks)
}

func TestCorrelationIDEchoed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/livez", nil, func(r *http.Request) {
		r.Header.Set("X-Correlation-ID", "corr-123")
	})
	env := decode[authsdk.HealthResponse](t, rec, http.StatusOK)
	require.Equal(t, "corr-123", env.Metadata.CorrelationID)
	require.Equal(t, "corr-123", rec.Header().Get("X-Correlation-ID"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	requireErrorCode(t, s.do(t, http.MethodGet, "/nope", nil), http.StatusNotFound, authsdk.CodeNotFound)
}

func TestRegisterRateLimited(t *testing.T) {
	s := newTestServer(t)

	// StrictLimit allows 5 per minute per IP.
	for i := range 5 {
		rec := s.do(t, http.MethodPost, "/auth/register", authsdk.RegisterRequest{
			Username: "user" + string(rune('a'+i)),
			Email:    "user" + string(rune('a'+i)) + "@example.com",
			Password: testPassword,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := s.do(t, http.MethodPost, "/auth/register", authsdk.RegisterRequest{
		Username: "userz", Email: "userz@example.com", Password: testPassword,
	})
	requireErrorCode(t, rec, http.StatusTooManyRequests, authsdk.CodeRateLimited)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// Another client is unaffected.
	rec = s.do(t, http.MethodPost, "/auth/register", authsdk.RegisterRequest{
		Username: "other", Email: "other@example.com", Password: testPassword,
	}, withIP("198.51.100.77"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
