package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/server"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the playlist HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil || r.sessions == nil {
		return fmt.Errorf("%w: stores not initialized", shared.ErrServiceUnavailable)
	}
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}

	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	api := server.NewAPI(r.store, r.sessions, r.catalog, shared.WithLogger(r.logger, "component", "http"))
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
