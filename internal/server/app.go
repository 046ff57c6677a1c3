// Package server initializes and runs the funrun server: it opens the
// database, applies migrations, and runs the HTTP API and the metrics
// listener until a signal or a fatal error stops them.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/dmitrijs2005/funrun/internal/server/config"
	"github.com/dmitrijs2005/funrun/internal/server/httpserver"
	"github.com/dmitrijs2005/funrun/internal/server/mailer"
	"github.com/dmitrijs2005/funrun/internal/server/observability"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/funrun/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repos       repomanager.RepositoryManager
	auth        *services.AuthService
	collections *services.CollectionService
	metrics     *observability.Metrics
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db, repomanager.NewPostgresRepositoryManager()), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repos:       rm,
		auth:        services.NewAuthService(db, rm, newMailer(c, logger), logger, c),
		collections: services.NewCollectionService(db, rm),
		metrics:     observability.NewMetrics(),
	}
}

// newMailer picks the SMTP relay when a host is configured and falls back
// to logging reset links otherwise.
func newMailer(c *config.Config, logger logging.Logger) mailer.Mailer {
	if c.SMTPHost == "" {
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}, logger)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewServer(httpserver.Options{
		Address:         app.config.EndpointAddrHTTP,
		SecureCookies:   app.config.IsProduction(),
		SessionValidity: app.config.SessionValidityDuration,
		AssetsDir:       app.config.AssetsDir,
	}, app.auth, app.collections, app.metrics, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startObservabilityServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var pinger observability.Pinger
	if app.db != nil {
		pinger = app.db
	}

	s := observability.NewServer(app.config.MetricsAddr, app.metrics, pinger, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema and serves until ctx is cancelled, a signal
// arrives, or one of the listeners fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startObservabilityServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			return fmt.Errorf("db close: %w", err)
		}
	}
	return nil
}
