package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"production-tracker/internal/config"
	"production-tracker/internal/identity"
	"production-tracker/internal/live"
	"production-tracker/internal/logger"
	"production-tracker/internal/service/records"
	"production-tracker/internal/service/reference"
	"production-tracker/internal/service/report"
	"production-tracker/internal/service/users"
	"production-tracker/internal/storage/mysql"
)

func main() {
	cfg := config.MustConfig()

	log := logger.Setup(cfg.Env, cfg.ErrorLog)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", logger.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.MigrateOnBoot {
		if err := mysql.Migrate(cfg.DB.MigrationDSN(), log); err != nil {
			log.Error("failed to migrate db", logger.Err(err))
			os.Exit(1)
		}
	}

	storage, err := mysql.New(ctx, cfg.DB)
	if err != nil {
		log.Error("failed to open db", logger.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	logo, err := report.LoadLogo(cfg.Report.LogoPath)
	if err != nil {
		// the PDF header works without a logo
		log.Warn("cannot load report logo", slog.String("path", cfg.Report.LogoPath), logger.Err(err))
	}

	hub := live.NewHub(storage, log, loc)
	tokens := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	app := &app{
		cfg:       cfg,
		log:       log,
		loc:       loc,
		hub:       hub,
		sessions:  identity.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SecureCookie, cfg.Auth.TokenTTL),
		provider:  identity.NewProvider(log, storage, tokens),
		resolver:  identity.NewResolver(log, tokens, storage, cfg.Auth.ResolveDeadline),
		reference: reference.NewLoader(storage),
		records:   records.NewService(log, storage, hub, loc),
		users:     users.NewService(log, storage),
		report:    report.NewService(loc, report.Options{Title: cfg.Report.Title, Logo: logo}),
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      app.routes(),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// open SSE streams end with their request contexts
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		os.Exit(1)
	}

	log.Info("server stopped")
}
