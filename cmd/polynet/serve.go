package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/recera/polynet/cmd/polynet/internal/config"
	"github.com/recera/polynet/internal/console"
	"github.com/recera/polynet/internal/metrics"
	"github.com/recera/polynet/internal/watch"
	"github.com/recera/polynet/pkg/live"
	"github.com/recera/polynet/pkg/state"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var (
		host      string
		port      int
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram to browsers",
		Long: `Starts an HTTP server with the live diagram page. Each browser tab gets its
own session. When --config is set, color changes in the file are pushed to
every open tab.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			// CLI takes precedence
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if noMetrics {
				cfg.Server.Metrics = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, cfg, cmd)
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 7070, "Port to listen on")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Disable the /metrics endpoint")
	return cmd
}

func runServe(ctx context.Context, a *app, cfg *config.Config, cmd *cobra.Command) error {
	var tunables atomic.Pointer[state.Tunables]
	t := cfg.Tunables()
	tunables.Store(&t)

	opts := live.Options{
		Logger:   a.log,
		Initial:  func() state.State { return state.New(*tunables.Load()) },
		Filename: cfg.Export.Filename,
	}
	var reg *metrics.Registry
	if cfg.Server.Metrics {
		reg = metrics.NewRegistry()
		opts.Observer = reg
		opts.Metrics = reg.Handler()
	}
	srv := live.NewServer(opts)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	out := cmd.ErrOrStderr()
	console.Banner(out, "serve")
	console.Field(out, "url", "http://"+cfg.Addr())
	if cfg.Server.Metrics {
		console.Field(out, "metrics", "http://"+cfg.Addr()+"/metrics")
	}
	if a.configPath != "" {
		console.Field(out, "config", a.configPath+" (watching)")
	}
	console.Field(out, "sides", strconv.Itoa(t.Sides))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down")
		srv.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if a.configPath != "" {
		w := &watch.File{
			Path:   a.configPath,
			Logger: a.log,
			OnChange: func(path string) {
				next, err := config.Load(path)
				if reg != nil {
					reg.ConfigReloaded(err == nil)
				}
				if err != nil {
					a.log.Warn("config reload failed, keeping previous colors", "path", path, "error", err)
					console.Warning(out, "config reload failed: %v", err)
					return
				}
				nt := next.Tunables()
				tunables.Store(&nt)
				srv.BroadcastColors(nt.Colors)
				a.log.Info("config reloaded", "path", path, "sessions", srv.Len())
			},
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	console.Success(out, "stopped")
	return nil
}
