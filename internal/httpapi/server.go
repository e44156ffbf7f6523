// Package httpapi serves the tracer over HTTP.
//
// Routes:
//
//	POST /api/vectorize      multipart upload ("image" or "motif" file,
//	                         "layout", "trace_preset") -> tracing response
//	GET  /api/vectors/{id}   stored SVG document
//	GET  /health             liveness
//	GET  /metrics            Prometheus exposition, when enabled
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ironsheep/motif-tracer/internal/logging"
	"github.com/ironsheep/motif-tracer/internal/store"
	"github.com/ironsheep/motif-tracer/internal/trace"
	"github.com/ironsheep/motif-tracer/internal/vectorize"
)

// DefaultMaxUploadBytes caps an upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipart parts beyond this are spooled to disk by mime/multipart.
const formMemory = 8 << 20

// Server handles the HTTP routes.
type Server struct {
	svc       *vectorize.Service
	log       *slog.Logger
	maxUpload int64
	gatherer  prometheus.Gatherer
}

type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxUploadBytes caps the request body of POST /api/vectorize.
// Non-positive values keep DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithMetrics exposes the collectors of g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc *vectorize.Service, opts ...Option) http.Handler {
	s := &Server{
		svc:       svc,
		log:       logging.NewNop(),
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.Health)
	r.Post("/api/vectorize", s.Vectorize)
	r.Get("/api/vectors/{id}", s.Vector)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, http.StatusOK, map[string]string{"status": "ok"})
}

// Vectorize handles POST /api/vectorize.
//
// A missing file or an undecodable image is a 400 with ok=false. A body over
// the upload limit is a 413. A successful trace is a 200 even when it found
// no shapes; the response then carries a warning.
func (s *Server) Vectorize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.log.Warn("upload rejected", "limit", tooLarge.Limit)
			writeFailure(w, s.log, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.log.Warn("invalid multipart form", "error", err)
		writeFailure(w, s.log, http.StatusBadRequest, "expected a multipart/form-data upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, name, err := uploadedImage(r.MultipartForm)
	if err != nil {
		writeFailure(w, s.log, http.StatusBadRequest, err.Error())
		return
	}

	resp, _ := s.svc.Trace(r.Context(), vectorize.Request{
		Image:  data,
		Layout: strings.ToLower(strings.TrimSpace(r.FormValue("layout"))),
		Preset: strings.ToLower(strings.TrimSpace(r.FormValue("trace_preset"))),
		Source: name,
	})
	if !resp.OK {
		writeJSON(w, s.log, http.StatusBadRequest, resp)
		return
	}
	if resp.ID != "" {
		resp.DownloadURL = "/api/vectors/" + resp.ID
	}
	writeJSON(w, s.log, http.StatusOK, resp)
}

// Vector handles GET /api/vectors/{id}.
func (s *Server) Vector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	svg, err := s.svc.Load(r.Context(), id)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, id))
		if _, err := io.WriteString(w, svg); err != nil {
			s.log.Error("svg write failed", "id", id, "error", err)
		}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, vectorize.ErrNoStore):
		http.Error(w, "vector not found", http.StatusNotFound)
	default:
		http.Error(w, "vector store unavailable", http.StatusBadGateway)
	}
}

// uploadedImage returns the bytes of the "image" part, or of the "motif"
// part when there is no image.
func uploadedImage(form *multipart.Form) ([]byte, string, error) {
	for _, field := range []string{"image", "motif"} {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read upload: %w", err)
		}
		return data, fh.Filename, nil
	}
	return nil, "", errors.New("no image/motif uploaded")
}

func writeFailure(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	writeJSON(w, log, status, trace.Response{
		OK:      false,
		Badges:  []string{},
		Banners: []string{},
		Error:   message,
	})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("response encode failed", "error", err)
	}
}
