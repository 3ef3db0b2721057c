package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/config"
	"github.com/agentscaffold/dashboard/internal/handler"
	"github.com/agentscaffold/dashboard/internal/service/alert"
	"github.com/agentscaffold/dashboard/internal/service/hub"
	"github.com/agentscaffold/dashboard/internal/service/ingest"
	"github.com/agentscaffold/dashboard/internal/service/query"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file; absence just means plain environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Server)

	// Core services: store, alert view, fan-out hub, write and read sides.
	messageStore := store.New(cfg.Store.HistoryLimit)
	tracker := alert.NewTracker(messageStore, logger)

	hubSvc := hub.New(logger,
		hub.WithHeartbeatInterval(cfg.Hub.HeartbeatInterval),
		hub.WithBuffer(cfg.Hub.SubscriberBuffer),
	)
	querySvc := query.NewService(messageStore, tracker, hubSvc)
	gateway := ingest.NewGateway(messageStore, tracker, hubSvc, logger)

	go hubSvc.Run(ctx, querySvc.HeartbeatSnapshot)
	go tracker.RunSweep(ctx, cfg.Hub.AlertSweepInterval)

	router := handler.NewRouter(gateway, querySvc, hubSvc, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newLogger(serverCfg config.ServerConfig) zerolog.Logger {
	if serverCfg.Development() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("dashboard service listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
