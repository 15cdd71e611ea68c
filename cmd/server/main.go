package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"ava/internal/assistant"
	"ava/internal/auth"
	"ava/internal/config"
	"ava/internal/db"
	"ava/internal/db/mock"
	"ava/internal/extract"
	"ava/internal/ingredient"
	applog "ava/internal/log"
	"ava/internal/server"
	"ava/internal/store"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadDotenvFunc      = config.LoadDotenv
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newExtractorFunc    = extract.New
	newAssistantFunc    = assistant.New
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	if err := loadDotenvFunc(); err != nil {
		applog.Error(ctx, "failed to load .env file", "error", err)
		return 1
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using in-memory mock database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	tokens, err := auth.NewIssuer(cfg.Auth.Token.Secret, cfg.Auth.Token.TTL)
	if err != nil {
		applog.Error(ctx, "failed to configure token issuer", "error", err)
		return 1
	}

	extractor, err := newExtractorFunc(ctx, cfg.OCR)
	if err != nil {
		applog.Error(ctx, "failed to configure text extraction", "provider", cfg.OCR.Provider, "error", err)
		return 1
	}

	generator, err := newAssistantFunc(ctx, cfg.LLM)
	if err != nil {
		applog.Error(ctx, "failed to configure assistant", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Database:  database,
		Catalog:   ingredient.NewCachedCatalog(store.NewCatalog(database), cfg.Catalog.CacheTTL),
		Tokens:    tokens,
		Extractor: extractor,
		Assistant: generator,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	applog.Info(ctx, "server stopped")
	return 0
}
