package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/identity/internal/auth/http"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/identity/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the identity service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	cache  cachex.KeyValueStore
	remote *cachex.RemoteStore // nil without Redis
	pepper string

	// Services
	tokenService        *service.TokenService
	userService         *service.UserService
	otpService          *service.OTPService
	apiKeyService       *service.APIKeyService
	resetService        *service.PasswordResetService
	ssoService          *service.SSOService
	rateLimiter         *service.RateLimiter
	notifier            service.Notifier
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.pepper = pepper

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCache()

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, for embedding the service in tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("identity service starting", "addr", app.cfg.HTTPAddr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.remote != nil {
		if err := app.remote.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations
func (app *Application) initDatabase() error {
	switch app.cfg.StoreDriver {
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	default:
		app.db = memory.NewStore()
		app.logger.Warn("using in-memory store, data is lost on restart")
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("store ready", "driver", app.cfg.StoreDriver)
	return nil
}

// initCache picks Redis backed by an in-process fallback, or in-process only.
func (app *Application) initCache() {
	addr := app.cfg.RedisAddr()
	if addr == "" {
		app.cache = cachex.NewLocalStore()
		app.logger.Warn("REDIS_HOST not set, using in-process cache")
		return
	}

	app.remote = cachex.NewRemoteStore(cachex.RemoteOptions{
		Addr:     addr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
		Timeout:  app.cfg.RedisTimeout,
		Prefix:   app.cfg.RedisPrefix,
	})

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.RedisTimeout)
	defer cancel()
	if err := app.remote.Ping(ctx); err != nil {
		app.logger.Warn("redis not reachable at startup", "addr", addr, "error", err)
	}

	app.cache = cachex.NewFallbackStore(app.remote, cachex.NewLocalStore(), app.logger)
	app.logger.Info("cache ready", "backend", "redis+local", "addr", addr)
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	app.notifier = &service.LogNotifier{Logger: app.logger}

	app.userService = &service.UserService{
		Store:            app.db,
		Hasher:           cryptox.NewPasswordHasher(app.pepper),
		Notifier:         app.notifier,
		MaxLoginAttempts: app.cfg.MaxLoginAttempts,
		LockDuration:     app.cfg.LockDuration,
		Now:              time.Now,
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  app.cfg.AccessSecret,
		RefreshSecret: app.cfg.RefreshSecret,
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessExpiry,
		RefreshTTL:    app.cfg.RefreshExpiry,
	}, &service.Blacklist{Cache: app.cache}, app.cache, app.db)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	app.otpService = service.NewOTPService(app.cache, app.cfg.OTPLength, app.cfg.OTPExpiry, app.cfg.OTPMaxAttempts)
	app.apiKeyService = &service.APIKeyService{Store: app.db, Now: time.Now}
	app.resetService = &service.PasswordResetService{Store: app.db, Now: time.Now}
	app.rateLimiter = &service.RateLimiter{Cache: app.cache}

	providers := service.DefaultSSOProviders()
	for name, sso := range app.cfg.SSO {
		p, ok := providers[name]
		if !ok {
			continue
		}
		p.ClientID = sso.ClientID
		p.RedirectURI = sso.RedirectURI
		providers[name] = p
	}
	app.ssoService = &service.SSOService{Providers: providers, Cache: app.cache, Now: time.Now}

	sweeper, _ := app.cache.(cachex.Sweeper)
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		sweeper,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.logger)

	router.GeneralLimit = app.cfg.GeneralRateLimit()
	router.Store = app.db
	router.Cache = app.cache
	router.Limiter = app.rateLimiter
	router.Notifier = app.notifier
	router.FrontendURL = app.cfg.FrontendURL
	router.UserService = app.userService
	router.OTPService = app.otpService
	router.TokenService = app.tokenService
	router.APIKeys = app.apiKeyService
	router.Resets = app.resetService
	router.SSOService = app.ssoService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
