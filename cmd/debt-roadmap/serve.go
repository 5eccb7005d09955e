package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/iwvelando/debt-roadmap/internal/cache"
	"github.com/iwvelando/debt-roadmap/internal/server"
	"github.com/iwvelando/debt-roadmap/internal/store"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	var serverConfig, address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, serverConfig, address)
		},
	}

	cmd.Flags().StringVar(&serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func (a *app) runServe(ctx context.Context, serverConfigPath, address string) error {
	cfg, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Address = address
	}

	logger, err := initializeLogger(cfg.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Release: version}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// The API still projects and solves without a store; only pull and push need one.
	var st store.Store
	if opened, err := store.New(cfg.Store.Driver, cfg.Store.Path); err != nil {
		logger.Warn("store unavailable, pull and push are disabled",
			zap.String("op", "serve"),
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err),
		)
	} else {
		st = opened
		defer st.Close()
	}

	projector, release, err := newProjector(cfg.Cache, logger)
	if err != nil {
		logger.Warn("cache unavailable, projections will not be memoized",
			zap.String("op", "serve"),
			zap.String("driver", cfg.Cache.Driver),
			zap.Error(err),
		)
		projector = cache.NewProjector(nil, 0, logger)
	}
	defer release()

	limiter := server.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer limiter.Stop()

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize: cfg.UploadSizeBytes(),
		Version:       version,
		AuthKey:       cfg.AuthKey,
		Store:         st,
		Projector:     projector,
		Limiter:       limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "serve"),
			zap.String("address", cfg.Address),
			zap.Bool("auth", cfg.AuthKey != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "serve"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
