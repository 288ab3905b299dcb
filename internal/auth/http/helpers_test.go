package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/identity/internal/auth/http"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testPassword = "StrongPass1!"

// outbox captures notifications so tests can read OTP codes and reset links.
type outbox struct {
	mu     sync.Mutex
	otps   map[string]string
	resets map[string]string
}

func (o *outbox) SendOTP(_ context.Context, email, code string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.otps[email] = code
	return nil
}

func (o *outbox) SendPasswordReset(_ context.Context, email, link string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resets[email] = link
	return nil
}

func (o *outbox) SendAccountLocked(context.Context, string, time.Time) error { return nil }
func (o *outbox) SendWelcome(context.Context, string, string) error          { return nil }

func (o *outbox) otp(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.otps[email]
}

func (o *outbox) reset(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resets[email]
}

type testServer struct {
	router *authhttp.Router
	cache  *cachex.LocalStore
	outbox *outbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memory.NewStore()
	cache := cachex.NewLocalStore()
	box := &outbox{otps: map[string]string{}, resets: map[string]string{}}

	users := &service.UserService{
		Store: st,
		Hasher: &cryptox.PasswordHasher{
			Pepper: "test-pepper",
			Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
		},
		Notifier:         box,
		MaxLoginAttempts: 3,
		LockDuration:     15 * time.Minute,
		Now:              time.Now,
	}
	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  "access-secret-access-secret-0123456789",
		RefreshSecret: "refresh-secret-refresh-secret-0123456789",
		Issuer:        "identity-test",
	}, &service.Blacklist{Cache: cache}, cache, st)
	require.NoError(t, err)

	providers := service.DefaultSSOProviders()
	google := providers["google"]
	google.ClientID = "client-123"
	google.RedirectURI = "https://app.example.com/sso/callback"
	providers["google"] = google

	r := authhttp.NewRouter("test", slogx.Discard())
	r.Store = st
	r.Cache = cache
	r.Limiter = &service.RateLimiter{Cache: cache}
	r.Notifier = box
	r.FrontendURL = "https://app.example.com"
	r.UserService = users
	r.OTPService = service.NewOTPService(cache, 6, 5*time.Minute, 3)
	r.TokenService = tokens
	r.APIKeys = &service.APIKeyService{Store: st, Now: time.Now}
	r.Resets = &service.PasswordResetService{Store: st, Now: time.Now}
	r.SSOService = &service.SSOService{Providers: providers, Cache: cache, Now: time.Now}
	r.ApplyRoutes()

	return &testServer{router: r, cache: cache, outbox: box}
}

type reqOpt func(*http.Request)

func withBearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withAPIKey(key string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-API-Key", key) }
}

func withIP(ip string) reqOpt {
	return func(r *http.Request) { r.RemoteAddr = ip + ":4321" }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// decode unwraps the envelope, asserting the status and success flag.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder, status int) authsdk.Envelope[T] {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())

	var env authsdk.Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, status < 300, env.Success)
	require.False(t, env.Metadata.Timestamp.IsZero())
	require.NotEmpty(t, env.Metadata.CorrelationID)
	return env
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) authsdk.ErrorBody {
	t.Helper()
	env := decode[json.RawMessage](t, rec, status)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return *env.Error
}

func (s *testServer) register(t *testing.T, username string, mfa bool) authsdk.UserResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", authsdk.RegisterRequest{
		Username:   username,
		Email:      username + "@example.com",
		Password:   testPassword,
		MFAEnabled: mfa,
	})
	return decode[authsdk.UserResponse](t, rec, http.StatusCreated).Data
}

func (s *testServer) login(t *testing.T, username string) authsdk.LoginResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", authsdk.LoginRequest{Username: username, Password: testPassword})
	return decode[authsdk.LoginResponse](t, rec, http.StatusOK).Data
}
