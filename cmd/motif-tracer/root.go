package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/motif-tracer/internal/config"
	"github.com/ironsheep/motif-tracer/internal/logging"
	"github.com/ironsheep/motif-tracer/internal/metrics"
	"github.com/ironsheep/motif-tracer/internal/store"
	"github.com/ironsheep/motif-tracer/internal/vectorize"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "motif-tracer",
		Short: "Trace raster motifs into single-color SVG",
		Long: `motif-tracer converts a raster motif into an SVG of filled or stroked paths,
grouped into badges (compact marks) and banners (large areas and strips).

It runs as a one-shot CLI, an HTTP service or an MCP server on stdio.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newTraceCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. Logs always go to
// stderr; stdout belongs to command output and the MCP protocol.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// newService builds the tracing service from the configuration. The
// returned cleanup closes the store, if any.
func (a *app) newService(rec *metrics.Recorder) (*vectorize.Service, func()) {
	opts := []vectorize.Option{
		vectorize.WithDefaults(vectorize.DefaultsFromConfig(a.cfg.Trace)),
		vectorize.WithLogger(a.log),
		vectorize.WithMetrics(rec),
	}

	cleanup := func() {}
	if a.cfg.Redis.Addr != "" {
		rs := store.New(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB,
			store.WithPrefix(a.cfg.Redis.Prefix),
			store.WithTTL(a.cfg.Redis.TTL),
		)
		opts = append(opts, vectorize.WithStore(rs))
		cleanup = func() {
			if err := rs.Close(); err != nil {
				a.log.Warn("failed to close vector store", "error", err)
			}
		}
		a.log.Info("vector store enabled", "addr", a.cfg.Redis.Addr, "prefix", a.cfg.Redis.Prefix, "ttl", a.cfg.Redis.TTL)
	}

	return vectorize.New(opts...), cleanup
}
