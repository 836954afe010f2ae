package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alnah/go-specview/internal/server"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ErrListen indicates the preview server could not bind its address.
var ErrListen = errors.New("failed to listen")

// runServe runs the preview server until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseServeFlags(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	log := newLogger(env.Stderr, flags.output, slog.LevelInfo)
	r, cfg, _, err := newRenderer(&flags.renderer, log, env)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flags.addr != "" {
		addr = flags.addr
	}
	root := cfg.Server.Root
	if flags.root != "" {
		root = flags.root
	}

	srv, err := server.New(r, root, log)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrListen, err)
	}

	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	if !flags.output.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s on http://%s\n", srv.Root(), ln.Addr())
	}
	log.Info("server started", "addr", ln.Addr().String(), "root", srv.Root())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
