//go:build e2e

package auth_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/app"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for identity service end-to-end tests.
 * Redis runs in a container shared by the whole suite; each test gets its own
 * in-process service instance with a private key prefix and in-memory store.
 */

const (
	redisImage = "redis:7-alpine"

	testPassword = "StrongPass1!"
	newPassword  = "EvenStronger2@"
)

var (
	redisHost string
	redisPort int
)

// TestMain starts Redis once before all tests and terminates it after.
func TestMain(m *testing.M) {
	ctx := context.Background()

	fmt.Fprintf(os.Stdout, "Starting Redis container...")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to start Redis: %v\n", err)
		os.Exit(1)
	}

	host, err := container.Host(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to resolve Redis host: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}
	mappedPort, err := container.MappedPort(ctx, "6379")
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to resolve Redis port: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}
	redisHost, redisPort = host, mappedPort.Int()
	fmt.Fprintf(os.Stdout, " done\n")

	// Tests make many rapid requests which would otherwise hit the strict production limits
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Terminating Redis container...")
	_ = container.Terminate(ctx)
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// logSink collects the service's JSON log lines so tests can read the codes
// and links the log notifier would otherwise deliver out of band.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// last returns field from the most recent log line with msg sent to email.
func (s *logSink) last(msg, email, field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found string
	sc := bufio.NewScanner(bytes.NewReader(s.buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var line map[string]any
		if json.Unmarshal(sc.Bytes(), &line) != nil {
			continue
		}
		if line["msg"] != msg || line["to"] != email {
			continue
		}
		if v, ok := line[field].(string); ok {
			found = v
		}
	}
	return found
}

type testService struct {
	client *authsdk.SDKClient
	logs   *logSink
}

// otp returns the last code sent to email.
func (s *testService) otp(t *testing.T, email string) string {
	t.Helper()
	code := s.logs.last("notification: otp code", email, "code")
	require.NotEmpty(t, code, "no OTP was sent to %s", email)
	return code
}

// resetToken returns the token in the last reset link sent to email.
func (s *testService) resetToken(t *testing.T, email string) string {
	t.Helper()
	link := s.logs.last("notification: password reset link", email, "link")
	require.NotEmpty(t, link, "no reset link was sent to %s", email)

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "/reset-password", u.Path)
	return u.Query().Get("token")
}

// setupService starts an in-process identity service backed by the shared
// Redis container and returns a client for it.
func setupService(t *testing.T) *testService {
	t.Helper()

	logs := &logSink{}
	prefix := strings.NewReplacer("/", ":", " ", "_").Replace(t.Name())

	application, err := app.New(app.Config{
		HTTPAddr:  ":0",
		Env:       "test",
		LogLevel:  "debug",
		LogFormat: "json",
		LogOutput: logs,

		Issuer:        "identity-e2e",
		AccessSecret:  "e2e-access-secret-0123456789abcdef",
		RefreshSecret: "e2e-refresh-secret-0123456789abcdef",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Algorithm:     "HS256",

		PepperFile: filepath.Join(t.TempDir(), "pepper"),

		MaxLoginAttempts: 3,
		LockDuration:     15 * time.Minute,

		OTPLength:      6,
		OTPExpiry:      5 * time.Minute,
		OTPMaxAttempts: 3,

		RateLimitWindow:      time.Minute,
		RateLimitMaxRequests: 1000,

		RedisHost:    redisHost,
		RedisPort:    redisPort,
		RedisTimeout: 2 * time.Second,
		RedisPrefix:  "e2e:" + prefix + ":",

		StoreDriver:          "memory",
		FrontendURL:          "https://app.example.com",
		ShutdownGracePeriod:  5 * time.Second,
		HousekeepingInterval: time.Hour,

		SSO: map[string]app.SSOConfig{
			"google": {ClientID: "e2e-client", RedirectURI: "https://app.example.com/sso/callback"},
		},
	})
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &testService{client: authsdk.NewSDKClient(server.URL), logs: logs}
}

// registerUser creates an account and returns its email.
func registerUser(t *testing.T, svc *testService, username string, mfa bool) string {
	t.Helper()

	email := username + "@example.com"
	req := authsdk.RegisterRequest{
		Username: username,
		Email:    email,
		Password: testPassword,
	}
	if mfa {
		req.MFAEnabled = true
		req.MFAMethod = "email"
	}

	user, err := svc.client.Register(t.Context(), req)
	require.NoError(t, err, "Register should succeed")
	require.Equal(t, username, user.Username)
	require.Equal(t, email, user.Email)
	return email
}

// assertAPIError verifies err is an API error with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code, "unexpected code: %v", err)
}
