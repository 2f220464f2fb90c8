package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/config"
	"github.com/goliatone/go-storefront/logging"
	"github.com/goliatone/go-storefront/mailer"
	"github.com/goliatone/go-storefront/mongostore"
	"github.com/goliatone/go-storefront/repository"
	"github.com/goliatone/go-storefront/social/providers/google"
)

type App struct {
	config *config.Config
	logger *logging.Logger
	db     *bun.DB
	mongo  *mongostore.Store
	repo   storefront.RepositoryManager
	mailer storefront.Mailer
	google *google.Verifier
	srv    *fiber.App
}

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := &App{config: cfg}
	ctx := context.Background()

	setup := []func(context.Context, *App) error{
		WithLogger,
		WithPersistence,
		WithMailer,
		WithGoogle,
		WithHTTPServer,
	}
	for _, fn := range setup {
		if err := fn(ctx, app); err != nil {
			log.Fatal(err)
		}
	}

	go func() {
		app.logger.Info("starting server", "addr", cfg.Server.Addr())
		if err := app.srv.Listen(cfg.Server.Addr()); err != nil {
			app.logger.Error("server stopped", "error", err)
		}
	}()

	sig := WaitExitSignal()
	app.logger.Info("shutting down", "signal", sig.String())
	app.Close()
}

func WithLogger(_ context.Context, app *App) error {
	logger, err := logging.New(app.config.Log)
	if err != nil {
		return err
	}
	app.logger = logger
	return nil
}

func WithPersistence(ctx context.Context, app *App) error {
	switch app.config.Database.Driver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, app.config.Mongo.URI, app.config.Mongo.Name)
		if err != nil {
			return err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}
		app.mongo = store
		app.repo = store
	default:
		sqldb, err := sql.Open(sqliteshim.ShimName, app.config.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())

		if app.config.Database.Migrate {
			if err := repository.Migrate(ctx, db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		app.db = db
		app.repo = repository.NewRepositoryManager(db)
	}

	app.logger.Info("persistence ready", "driver", app.config.Database.Driver)
	return app.repo.Validate()
}

func WithMailer(_ context.Context, app *App) error {
	m, err := mailer.New(app.config.Email.Mailer(), app.logger.With("component", "mailer"))
	if err != nil {
		return err
	}
	app.mailer = m
	return nil
}

// WithGoogle is optional, google login answers with an internal error
// when no client id is configured.
func WithGoogle(_ context.Context, app *App) error {
	if app.config.Google.ClientID == "" {
		app.logger.Warn("google login disabled, no client id configured")
		return nil
	}

	verifier, err := google.New(google.Config{
		ClientID: app.config.Google.ClientID,
		CertsURL: app.config.Google.CertsURL,
		Logger:   app.logger.With("component", "google"),
	})
	if err != nil {
		return err
	}
	app.google = verifier
	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	cfg := app.config.Auth
	logger := app.logger

	tokens := storefront.NewTokenService(cfg, logger.With("component", "tokens"))

	flow := storefront.NewAuthFlow(cfg, app.repo, tokens).
		WithLogger(logger.With("component", "flow")).
		WithMailer(app.mailer)
	if app.google != nil {
		flow.WithOAuthVerifier(app.google)
	}

	carts := storefront.NewCartAdjuster(app.repo).
		WithLogger(logger.With("component", "carts"))

	ctrl := storefront.NewController(cfg, flow, carts, storefront.NewAccessTokenValidator(tokens)).
		WithLogger(logger.With("component", "http")).
		WithDebug(app.config.Debug)

	app.srv = fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: ctrl.ErrorHandler,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
	})

	ctrl.RegisterRoutes(app.srv.Group(app.config.Server.Prefix))
	return nil
}

// Close stops the server then releases the stores
func (app *App) Close() {
	timeout := app.config.Server.ShutdownTimeout

	if app.srv != nil {
		if err := app.srv.ShutdownWithTimeout(timeout); err != nil {
			app.logger.Error("server shutdown failed", "error", err)
		}
	}

	if async, ok := app.mailer.(*mailer.Async); ok {
		async.Wait()
	}

	if app.google != nil {
		app.google.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("database close failed", "error", err)
		}
	}

	if app.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := app.mongo.Close(ctx); err != nil {
			app.logger.Error("mongo disconnect failed", "error", err)
		}
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
