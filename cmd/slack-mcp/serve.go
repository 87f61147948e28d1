package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"slack-mcp/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (SSE on /sse, JSON tools on /mcp)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr(), err)
	}
	return serve(ctx, a, ln)
}

// serve runs the HTTP server on ln until ctx is done, then shuts down within
// the configured timeout and flushes the error tracker.
func serve(ctx context.Context, a *app, ln net.Listener) error {
	srv := server.New(a.cfg, a.checker, a.boundary, a.log)

	// SSE streams live as long as the client stays connected; cancelling the
	// base context on shutdown is what ends them.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	httpServer := &http.Server{
		Handler:           srv.Router(),
		ErrorLog:          a.boundary.StdLog("http"),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpServer.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("Starting MCP server",
			"addr", ln.Addr().String(),
			"endpoint", "/sse",
			"tls", a.cfg.Server.TLS(),
		)
		if a.cfg.Server.TLS() {
			errCh <- httpServer.ServeTLS(ln, a.cfg.Server.TLSCertFile, a.cfg.Server.TLSKeyFile)
		} else {
			errCh <- httpServer.Serve(ln)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.log.Warnw("Shutdown incomplete", "error", err)
		}
		if err := a.tracker.Flush(shutdownCtx); err != nil {
			a.log.Warnw("Failed to flush error tracker", "error", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
