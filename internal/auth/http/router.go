package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"

	_ "github.com/aussiebroadwan/identity/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Store        Pinger
	Cache        Pinger
	Limiter      httpx.WindowLimiter
	GeneralLimit httpx.RateLimitConfig // refresh, logout and API key writes; zero means httpx.ModerateLimit
	Notifier     service.Notifier
	FrontendURL  string
	UserService  *service.UserService
	OTPService   *service.OTPService
	TokenService *service.TokenService
	APIKeys      *service.APIKeyService
	Resets       *service.PasswordResetService
	SSOService   *service.SSOService
}

func NewRouter(buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.GeneralLimit.RequestsPerWindow <= 0 {
		r.GeneralLimit = httpx.ModerateLimit
	}

	r.registerAuth()
	r.registerAPIKeys()
	r.registerPasswordReset()
	r.registerSSO()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, httpx.ErrNotFound)
	})
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Identity Service API
//	@version					0.1.0
//	@description				Account registration, password login with optional email OTP, JWT access and refresh tokens, API keys and password reset.
//	@description
//	@description				Every response is wrapped in an envelope: {success, data | error{code, message, details}, metadata{timestamp, correlation_id}}.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/identity
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	APIKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				API key minted by POST /auth/api-keys.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn accepts a bearer token or an API key.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.TokenService, r.APIKeys)
}

// byIP pairs the in-process burst guard with the shared fixed window.
func (r *Router) byIP(cfg httpx.RateLimitConfig, scope string) httpx.Middleware {
	return httpx.RateLimitByIP(cfg, httpx.WithWindowLimiter(r.Limiter, scope))
}

func (r *Router) byUser(cfg httpx.RateLimitConfig, scope string) httpx.Middleware {
	return httpx.RateLimitByUser(cfg, r.Limiter, scope)
}

func (r *Router) registerAuth() {
	register := &RegisterHandler{
		UserService: r.UserService,
		OTPService:  r.OTPService,
		Notifier:    r.Notifier,
	}
	login := &LoginHandler{
		UserService:  r.UserService,
		OTPService:   r.OTPService,
		TokenService: r.TokenService,
		Notifier:     r.Notifier,
	}
	tokens := &TokenHandler{TokenService: r.TokenService}

	// POST /auth/register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(register, r.byIP(httpx.StrictLimit, "register")),
	)

	// POST /auth/login - strict rate limit by IP + username (brute force prevention)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(login.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username", r.Limiter, "login"),
		),
	)

	// POST /auth/verify-otp - strict rate limit by IP + email on top of the OTP attempt budget
	r.Mux.Handle("POST /auth/verify-otp",
		httpx.Chain(http.HandlerFunc(login.HandleVerifyOTP),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email", r.Limiter, "verify-otp"),
		),
	)

	// POST /auth/refresh - general rate limit by IP
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(http.HandlerFunc(tokens.HandleRefresh), r.byIP(r.GeneralLimit, "refresh")),
	)

	// POST /auth/logout - bearer only, so API keys are not offered here
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(tokens.HandleLogout),
			httpx.AuthnMiddleware(r.TokenService, nil),
			r.byUser(r.GeneralLimit, "logout"),
		),
	)
}

func (r *Router) registerAPIKeys() {
	h := &APIKeysHandler{APIKeyService: r.APIKeys}

	r.Mux.Handle("POST /auth/api-keys",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), r.authn(), r.byUser(r.GeneralLimit, "api-keys")),
	)
	r.Mux.Handle("GET /auth/api-keys",
		httpx.Chain(http.HandlerFunc(h.HandleList), r.authn(), r.byUser(httpx.LenientLimit, "api-keys-read")),
	)
	r.Mux.Handle("DELETE /auth/api-keys/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete), r.authn(), r.byUser(r.GeneralLimit, "api-keys")),
	)
}

func (r *Router) registerPasswordReset() {
	h := &PasswordResetHandler{
		UserService:  r.UserService,
		ResetService: r.Resets,
		Notifier:     r.Notifier,
		FrontendURL:  r.FrontendURL,
	}

	// Keyed by IP + email so one inbox cannot be flooded from one address.
	r.Mux.Handle("POST /auth/password-reset",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email", r.Limiter, "password-reset"),
		),
	)
	r.Mux.Handle("POST /auth/password-reset/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm), r.byIP(httpx.StrictLimit, "password-reset-confirm")),
	)
}

func (r *Router) registerSSO() {
	r.Mux.Handle("GET /auth/sso/{provider}",
		httpx.Chain(&SSOHandler{SSOService: r.SSOService}, r.byIP(httpx.LenientLimit, "sso")),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Store, r.Cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
