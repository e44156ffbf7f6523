package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ironsheep/motif-tracer/internal/httpapi"
	"github.com/ironsheep/motif-tracer/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

POST /api/vectorize traces a multipart upload. When redis.addr is configured
every SVG is stored and served again at GET /api/vectors/{id}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.cfg.HTTP.Listen = listen
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides http.listen)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		rec *metrics.Recorder
		reg *prometheus.Registry
	)
	if a.cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rec = metrics.New(reg)
	}

	svc, cleanup := a.newService(rec)
	defer cleanup()

	if svc.HasStore() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := svc.Ping(pingCtx); err != nil {
			a.log.Warn("vector store unreachable, traces will not be stored until it recovers", "error", err)
		}
		cancel()
	}

	opts := []httpapi.Option{
		httpapi.WithLogger(a.log),
		httpapi.WithMaxUploadBytes(a.cfg.HTTP.MaxUploadBytes),
	}
	if reg != nil {
		opts = append(opts, httpapi.WithMetrics(reg))
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Listen,
		Handler:           httpapi.NewHandler(svc, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info("starting http server", "addr", srv.Addr, "metrics", reg != nil)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		a.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		a.log.Info("http server stopped")
		return nil
	}
}
