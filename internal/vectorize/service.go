// Package vectorize wires the tracing core to the process-wide concerns the
// adapters share: configured defaults, metrics, logging and the SVG store.
//
// The HTTP API, the MCP server and the CLI all trace through a Service, so
// a request behaves the same whichever surface it arrives on.
package vectorize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ironsheep/motif-tracer/internal/config"
	"github.com/ironsheep/motif-tracer/internal/logging"
	"github.com/ironsheep/motif-tracer/internal/metrics"
	"github.com/ironsheep/motif-tracer/internal/store"
	"github.com/ironsheep/motif-tracer/internal/trace"
)

// Service traces images with configured defaults.
type Service struct {
	defaults trace.Options
	store    store.Store
	metrics  *metrics.Recorder
	log      *slog.Logger
}

type Option func(*Service)

// WithStore persists every successful trace. Storage failures are reported
// in the response and never fail the trace.
func WithStore(s store.Store) Option {
	return func(svc *Service) {
		svc.store = s
	}
}

// WithMetrics records every call on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(svc *Service) {
		svc.metrics = rec
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(svc *Service) {
		if log != nil {
			svc.log = log
		}
	}
}

// WithDefaults sets the options used for names a request leaves empty.
func WithDefaults(opts trace.Options) Option {
	return func(svc *Service) {
		svc.defaults = opts
	}
}

// New creates a Service. Without options it traces with the built-in
// defaults and stores nothing.
func New(opts ...Option) *Service {
	svc := &Service{log: logging.NewNop()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// DefaultsFromConfig converts the trace section of cfg into Options.
func DefaultsFromConfig(cfg config.TraceConfig) trace.Options {
	return trace.Options{
		Layout:  trace.ParseLayout(cfg.Layout),
		Preset:  trace.ParsePreset(cfg.Preset),
		Ink:     cfg.Ink,
		MaxSide: cfg.MaxSide,
	}
}

// Request is one tracing call. Empty Layout or Preset use the defaults.
type Request struct {
	Image  []byte
	Layout string
	Preset string

	// Source names the input in logs (file name, upload name).
	Source string
}

// Trace runs the pipeline and returns the wire response together with the
// full result (nil on failure).
//
// A decode failure yields OK=false. When a store is configured and the
// trace succeeded with at least one shape, the SVG is saved and its id
// reported; a storage failure fills StorageError and leaves OK untouched.
func (s *Service) Trace(ctx context.Context, req Request) (trace.Response, *trace.Result) {
	opts := s.defaults
	if req.Layout != "" {
		opts.Layout = trace.ParseLayout(req.Layout)
	}
	if req.Preset != "" {
		opts.Preset = trace.ParsePreset(req.Preset)
	}

	start := time.Now()
	res, err := trace.Trace(req.Image, opts)
	elapsed := time.Since(start)

	log := s.log.With("source", req.Source, "layout", opts.Layout, "preset", opts.Preset)

	if err != nil {
		s.metrics.ObserveTrace("", metrics.OutcomeError, elapsed, 0, 0)
		if trace.IsDecodeError(err) {
			log.Warn("image could not be decoded", "error", err)
		} else {
			log.Error("trace failed", "error", err)
		}
		return trace.NewResponse(nil, err), nil
	}

	outcome := metrics.OutcomeOK
	if res.Empty() {
		outcome = metrics.OutcomeEmpty
		log.Warn("trace produced no shapes", "strategy", res.Strategy, "variance", res.Variance, "contours", res.Contours)
	}
	s.metrics.ObserveTrace(res.Strategy.String(), outcome, elapsed, len(res.Badges), len(res.Banners))

	log.Info("traced image",
		"strategy", res.Strategy,
		"width", res.Width,
		"height", res.Height,
		"badges", len(res.Badges),
		"banners", len(res.Banners),
		"elapsed", elapsed,
	)

	resp := trace.NewResponse(res, nil)
	if s.store != nil && !res.Empty() {
		id, err := s.store.Save(ctx, res.SVG)
		if err != nil {
			s.metrics.StorageFailure()
			log.Error("failed to store svg", "error", err)
			resp.StorageError = err.Error()
		} else {
			resp.ID = id
		}
	}
	return resp, res
}

// ErrNoStore is returned by Load when the service has no store.
var ErrNoStore = errors.New("no vector store configured")

// Load returns a stored SVG document.
func (s *Service) Load(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", ErrNoStore
	}
	svg, err := s.store.Load(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.metrics.StorageFailure()
		s.log.Error("failed to load svg", "id", id, "error", err)
	}
	return svg, err
}

// HasStore reports whether traces are persisted.
func (s *Service) HasStore() bool {
	return s.store != nil
}

// Ping checks that the store is reachable, for stores that support it.
func (s *Service) Ping(ctx context.Context) error {
	p, ok := s.store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}
