package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spboyer/callqa/internal/metrics"
	"github.com/spboyer/callqa/internal/webapi"
	"github.com/spboyer/callqa/internal/webserver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const reloadInterval = 30 * time.Second

func newServeCommand() *cobra.Command {
	var (
		f         stackFlags
		host      string
		port      int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the upload page, JSON API and metrics endpoint",
		Long: `Start the HTTP server.

  GET  /                       upload page
  POST /                       analyze an upload and show the results
  POST /api/analyze            analyze an upload, JSON response
  GET  /download_excel         latest Excel report
  GET  /play_audio/{filename}  a previously uploaded recording
  GET  /api/runs, /api/runs/{id}, /api/summary, /api/health
  GET  /metrics                Prometheus metrics

The server binds to loopback unless --host or server.host says otherwise.
It shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			logger := slog.Default()

			st, err := buildStack(cfg, f, logger)
			if err != nil {
				return err
			}
			st.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				metrics.NewArchiveCollector(st.store),
			)

			api := webapi.NewHandlers(st.store, st.analyzer, webapi.Options{
				UploadDir:      st.uploadsDir,
				ReportPath:     st.reportPath,
				MaxUploadBytes: cfg.Server.MaxUploadBytes(),
				Logger:         logger,
			})
			srv, err := webserver.New(webserver.Config{
				Host:      cfg.Server.Host,
				Port:      cfg.Server.Port,
				NoBrowser: noBrowser,
				API:       api,
				Metrics:   st.registry,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx)
			})
			g.Go(func() error {
				reloadArchive(gctx, st.store, reloadInterval, logger)
				return nil
			})
			return g.Wait()
		},
	}

	addStackFlags(cmd, &f)
	cmd.Flags().StringVar(&host, "host", "", "Interface to bind (default: config server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default: config server.port)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")

	return cmd
}

// reloadArchive picks up analyses archived by other processes, such as
// `callqa analyze`, until ctx is done.
func reloadArchive(ctx context.Context, store *webapi.FileStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Reload(); err != nil {
				logger.Warn("Reloading archived runs failed", "error", err)
			}
		}
	}
}
