package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/httpapi"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
)

func runServe(ctx context.Context, args []string, out io.Writer) error {
	fs, configPath := newFlagSet("serve")
	addr := fs.String("addr", "", "Listen address (defaults to http.addr)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, cleanup, err := buildEngine(ctx, *configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := newHTTPServer(a.context(ctx), a, *addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.log.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Fprintln(out, "Server stopped")
	return nil
}

// newHTTPServer loads the catalog and builds the API server without
// starting it.
func newHTTPServer(ctx context.Context, a *app, addr string) (*http.Server, error) {
	wines, stats, err := catalog.Load(ctx, a.cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}
	a.log.Info("catalog loaded", zap.Int("wines", stats.Accepted), zap.Int("malformed", stats.Malformed))

	api := httpapi.NewServer(httpapi.Options{
		Engine:  a.engine,
		Wines:   wines,
		Reviews: a.comp.Reviews,
		TopK:    a.cfg.HTTP.DefaultTopK,
		Logger:  a.log,
	})
	if addr == "" {
		addr = a.cfg.HTTP.Addr
	}
	return &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}, nil
}
