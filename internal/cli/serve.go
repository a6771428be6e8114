package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/service"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/store"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram pipeline HTTP API",
		Long: `Serve starts an HTTP server exposing the parse, layout, and render
pipeline under /api/v1, plus persistent diagram storage. The store backend
(in-memory or MongoDB) and the cache backend come from the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, cleanup, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              addr,
		Handler:           service.NewServer(runner, st, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "store", c.Config.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newStore builds the diagram store selected by the config, returning a
// cleanup func that releases its connections.
func (c *CLI) newStore(ctx context.Context) (store.Store, func(), error) {
	if c.Config.Store.Backend == "mongo" {
		ms, err := store.NewMongoStore(ctx, c.Config.Store.URI, c.Config.Store.Database, c.Config.Store.Collection)
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close(context.Background()) }, nil
	}
	return store.NewMemoryStore(), func() {}, nil
}
