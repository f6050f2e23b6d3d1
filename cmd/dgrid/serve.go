package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dgrid/internal/config"
	"github.com/vango-dev/dgrid/internal/errors"
	"github.com/vango-dev/dgrid/pkg/grid"
	"github.com/vango-dev/dgrid/pkg/middleware"
	"github.com/vango-dev/dgrid/pkg/server"
	"github.com/vango-dev/dgrid/pkg/store"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		watch   bool
		reapply bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid to browsers",
		Long: `Serve the grid over HTTP.

The page is rendered on the server and kept live over a websocket: sort
clicks, page changes and cell edits run on the server and the updated
grid is pushed back.

Endpoints:
  /          The grid page (accepts ?sort=, ?desc= and ?page=)
  /ws        Live session websocket
  /healthz   Health check
  /metrics   Prometheus metrics (when enabled)

Examples:
  dgrid serve
  dgrid serve --port 3000
  dgrid serve -c dgrid.toml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg, reapply)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Host to bind to")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the data file when it changes")
	cmd.Flags().BoolVar(&reapply, "reapply", false, "Keep sort and page when the data is reloaded")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config, reapply bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	var (
		opts       []server.Option
		storeStats *store.Metrics
	)
	opts = append(opts, server.WithLogger(logger))

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts,
			server.WithGatherer(registry),
			server.WithMetrics(middleware.NewMetrics(
				middleware.WithNamespace(cfg.Metrics.Namespace),
				middleware.WithRegistry(registry),
			)),
		)
		storeStats = store.NewMetrics(
			store.WithNamespace(cfg.Metrics.Namespace),
			store.WithRegistry(registry),
			store.WithTracerName(cfg.Tracing.TracerName+"/store"),
		)
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, server.WithTracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}
	if reapply {
		opts = append(opts, server.WithGridOptions(grid.WithReapplyOnStoreChange()))
	}

	wrap := func(s store.Source) store.Store {
		var st store.Store = store.New(s)
		if storeStats != nil {
			st = store.InstrumentWith(st, storeStats)
		}
		return st
	}

	props, err := gridProperties(ctx, cfg, wrap(src))
	if err != nil {
		return err
	}

	srvConfig := server.DefaultConfig()
	srvConfig.Title = cfg.Name
	if d, err := time.ParseDuration(cfg.Server.ShutdownTimeout); err == nil {
		srvConfig.ShutdownTimeout = d
	}
	srv := server.New(srvConfig, props, opts...)

	if cfg.Server.Watch {
		if cfg.Data.Source != config.SourceFile {
			logger.Warn("watch ignored: data source is not a file", "source", cfg.Data.Source)
		} else {
			go watchData(ctx, cfg, srv, wrap, logger)
		}
	}

	printBanner(out)
	success(out, "Serving %s", cfg.URL())
	info(out, "Data: %s", describeSource(cfg))
	if cfg.Metrics.Enabled {
		info(out, "Metrics: %s/metrics", cfg.URL())
	}
	info(out, "Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx, cfg.Address()); err != nil {
		return errors.New("E401").Wrap(err)
	}
	return nil
}

// watchData replaces the server's store whenever the data file changes.
func watchData(ctx context.Context, cfg *config.Config, srv *server.Server, wrap func(store.Source) store.Store, logger *slog.Logger) {
	path := cfg.Data.Path
	reload := func() error {
		items, err := store.LoadFile(path)
		if err != nil {
			return dataError(err)
		}
		srv.SetStore(wrap(store.NewMemory(items, store.WithIDField(cfg.Grid.IDField))))
		logger.Info("data reloaded", "path", path, "items", len(items), "sessions", srv.SessionCount())
		return nil
	}
	if err := server.Watch(ctx, path, reload, logger); err != nil {
		logger.Error("watch failed", "path", path, "error", err)
	}
}

func describeSource(cfg *config.Config) string {
	switch cfg.Data.Source {
	case config.SourceFile:
		return cfg.Data.Path
	case config.SourceBolt:
		return cfg.Data.Bolt.Path + " (bucket " + cfg.Data.Bolt.Bucket + ")"
	case config.SourceS3:
		return "s3://" + cfg.Data.S3.Bucket + "/" + cfg.Data.S3.Key
	}
	return "inline items"
}
