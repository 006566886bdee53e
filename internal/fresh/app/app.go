package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/thedevsir/fresh/internal/fresh/http"
	"github.com/thedevsir/fresh/internal/fresh/service"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/internal/fresh/store/drivers/sqlite"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/jwtx"
	"github.com/thedevsir/fresh/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the backend with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db    store.Store
	codec *jwtx.Codec

	// Services
	authService         *service.AuthService
	roleService         *service.RoleService
	guardService        *service.GuardService
	sessionService      *service.SessionService
	loginService        *service.LoginService
	signupService       *service.SignupService
	userService         *service.UserService
	adminService        *service.AdminService
	groupService        *service.AdminGroupService
	accountService      *service.AccountService
	statusService       *service.StatusService
	linkService         *service.LinkService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	mailer              service.Mailer

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "fresh",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCodec(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if app.cfg.RootPassword != "" {
		if err := app.bootstrapService.EnsureRoot(
			context.Background(), app.cfg.RootEmail, app.cfg.RootPassword,
		); err != nil {
			_ = app.db.Close()
			return nil, fmt.Errorf("failed to seed root admin: %w", err)
		}
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("fresh backend starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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
	app.logger.Info("shutting down fresh backend...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("fresh backend stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCodec sets up the HMAC codec that signs session bundles. An unset
// secret gets an ephemeral random one, which invalidates outstanding
// bundles across restarts; fine for dev, set FRESH_JWT_SECRET in prod.
func (app *Application) initCodec() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		app.logger.Warn("FRESH_JWT_SECRET not set, using an ephemeral secret")
	}

	codec, err := jwtx.NewCodec(secret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize session codec: %w", err)
	}
	app.codec = codec
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.mailer = &service.LogMailer{Logger: app.logger}

	app.sessionService = &service.SessionService{Store: app.db}
	app.guardService = service.NewGuardService(
		app.db,
		app.cfg.AttemptsPerIP,
		app.cfg.AttemptsPerIPAndUser,
		app.cfg.AttemptBlockWindow,
	)

	app.authService = &service.AuthService{
		Store:    app.db,
		Sessions: app.sessionService,
		Codec:    app.codec,
	}
	app.loginService = &service.LoginService{
		Store:    app.db,
		Sessions: app.sessionService,
		Guard:    app.guardService,
		Codec:    app.codec,
		Mailer:   app.mailer,
		ResetTTL: app.cfg.ResetTTL,
	}
	app.signupService = &service.SignupService{
		Store:     app.db,
		Sessions:  app.sessionService,
		Codec:     app.codec,
		Mailer:    app.mailer,
		VerifyTTL: app.cfg.VerifyTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.roleService = &service.RoleService{Store: app.db}
	app.adminService = &service.AdminService{Store: app.db}
	app.groupService = &service.AdminGroupService{Store: app.db}
	app.accountService = &service.AccountService{Store: app.db}
	app.statusService = &service.StatusService{Store: app.db}
	app.linkService = &service.LinkService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.guardService.BlockWindow,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.ContactEmail,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Auth = app.authService
	router.Roles = app.roleService
	router.Login = app.loginService
	router.Signup = app.signupService
	router.Sessions = app.sessionService
	router.Users = app.userService
	router.Admins = app.adminService
	router.Groups = app.groupService
	router.Accounts = app.accountService
	router.Statuses = app.statusService
	router.Links = app.linkService
	router.Mailer = app.mailer
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
