package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/awdb-etl/internal/domain"
	"github.com/couchcryptid/awdb-etl/internal/observability"
)

// Response headers describing the normalized table.
const (
	headerRows          = "X-Table-Rows"
	headerColumns       = "X-Table-Columns"
	headerPrunedColumns = "X-Pruned-Columns"
)

// Server exposes health, readiness, metrics and synchronous normalization
// HTTP endpoints.
type Server struct {
	httpServer   *http.Server
	logger       *slog.Logger
	metrics      *observability.Metrics
	maxBodyBytes int64
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// POST /normalize/{endpoint} routes. maxBodyBytes caps the posted document.
func NewServer(addr string, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, maxBodyBytes int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:       logger,
		metrics:      metrics,
		maxBodyBytes: maxBodyBytes,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /normalize/{endpoint}", s.handleNormalize)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("endpoint")
	endpoint, err := domain.ParseEndpoint(name)
	if err != nil {
		s.metrics.NormalizeRequests.WithLabelValues("unknown", "error").Inc()
		writeError(w, http.StatusNotFound, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		s.metrics.NormalizeRequests.WithLabelValues(name, "error").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := domain.Request{
		Endpoint:      endpoint,
		ReferenceType: r.URL.Query().Get("reference_type"),
		Documents:     [][]byte{body},
	}
	if endpoint == domain.EndpointReference && !domain.IsReferenceType(req.ReferenceType) {
		s.metrics.UnknownReferenceTypes.Inc()
	}

	res, err := domain.Normalize(req)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedInput) {
			s.metrics.NormalizeRequests.WithLabelValues(name, "malformed").Inc()
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.metrics.NormalizeRequests.WithLabelValues(name, "error").Inc()
		s.logger.Error("normalize failed", "endpoint", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.NormalizeRequests.WithLabelValues(name, "success").Inc()
	s.metrics.RowsNormalized.WithLabelValues(name).Add(float64(res.Table.NumRows()))
	s.metrics.ColumnsPruned.WithLabelValues(name).Add(float64(len(res.Dropped)))

	w.Header().Set(headerRows, strconv.Itoa(res.Table.NumRows()))
	w.Header().Set(headerColumns, strconv.Itoa(res.Table.NumCols()))
	if len(res.Dropped) > 0 {
		w.Header().Set(headerPrunedColumns, strings.Join(res.Dropped, ","))
	}
	writeJSON(w, http.StatusOK, res.Table)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
