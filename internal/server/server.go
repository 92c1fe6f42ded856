// Package server runs the HTTP listener for the lifetime of the process.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/teahouse/config"
	"github.com/shashiranjanraj/teahouse/internal/kernel"
	"github.com/shashiranjanraj/teahouse/pkg/logger"
	"github.com/shashiranjanraj/teahouse/pkg/shutdown"
)

const shutdownTimeout = 10 * time.Second

// Start boots the application and serves until SIGINT/SIGTERM or ctx ends.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	ctx, cancel := shutdown.WithSignals(ctx)
	defer cancel()

	app := Bootstrap(ctx, logger.L)
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + config.Port(),
		Handler:           kernel.Handler(app.Orders, config.CORSOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, app)
}

func serve(ctx context.Context, srv *http.Server, app *App) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("teahouse listening", "addr", srv.Addr, "store", app.Store.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
