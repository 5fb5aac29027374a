package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/kdr/tldr"
	"github.com/rs/cors"
)

// DefaultShutdownTimeout bounds how long Close waits for in-flight streams.
const DefaultShutdownTimeout = 10 * time.Second

// maxRequestBody caps the JSON body of a summarize request.
const maxRequestBody = 1 << 16

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the summarize API over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, such as ":3000".
	Addr string

	// CORSOrigins lists the browser origins allowed to call the API.
	// No CORS headers are sent when empty.
	CORSOrigins []string

	// ShutdownTimeout bounds Close. Defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	Summaries tldr.SummaryService
	Metrics   *Metrics
	Logger    *slog.Logger
}

// NewServer returns a new Server. Services must be set before Open.
func NewServer() *Server {
	return &Server{
		server:          &http.Server{ReadHeaderTimeout: 10 * time.Second},
		ShutdownTimeout: DefaultShutdownTimeout,
		Metrics:         NewMetrics(),
		Logger:          slog.New(slog.DiscardHandler),
	}
}

// Handler builds the router from the current configuration.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.Metrics.instrument)
	if len(s.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
		}).Handler)
	}

	r.Post("/api/summarize", s.handleSummarize)
	r.Get("/api/lengths", s.handleLengths)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	return r
}

// Open begins listening on Addr. Call Serve to accept connections.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.server.Handler = s.Handler()
	return nil
}

// Serve accepts connections until Close is called. It returns nil after a
// graceful shutdown.
func (s *Server) Serve() error {
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Port returns the TCP port of the running server.
// Useful when Addr requests a random port (":0").
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Close gracefully shuts the server down, waiting up to ShutdownTimeout
// for in-flight summaries to finish.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// summarizeRequest is the JSON body of POST /api/summarize.
type summarizeRequest struct {
	URL    string `json:"url"`
	Length string `json:"length"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&body); err != nil {
		s.Error(w, r, tldr.Errorf(tldr.EINVALID, "Invalid request body"))
		return
	}

	req, err := tldr.NewSummaryRequest(body.URL, body.Length)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	article, err := s.Summaries.Prepare(r.Context(), req)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	n, err := s.Summaries.Stream(r.Context(), w, article)
	s.Metrics.summaryBytes.Add(float64(n))
	if err == nil {
		return
	}
	if n == 0 {
		s.Error(w, r, tldr.Errorf(tldr.EGENERATE, "Failed to generate summary"), "cause", err)
		return
	}

	// Headers and part of the body are already on the wire. Abort the
	// connection so the client sees a truncated stream, not a clean end.
	s.Metrics.summaryErrors.WithLabelValues(tldr.EGENERATE).Inc()
	loggerFrom(r.Context(), s.Logger).Error("summary stream interrupted", "bytes", n, "err", err)
	panic(http.ErrAbortHandler)
}

func (s *Server) handleLengths(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tldr.LengthProfiles()); err != nil {
		loggerFrom(r.Context(), s.Logger).Error("encode lengths", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// Error writes err to w as a plain-text response. Invalid input and fetch
// failures are reported with their message and status 400; anything else
// is logged and reported as a generic 500.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error, attrs ...any) {
	code := tldr.ErrorCode(err)
	s.Metrics.summaryErrors.WithLabelValues(code).Inc()

	status, message := http.StatusInternalServerError, "Failed to generate summary"
	switch code {
	case tldr.EINVALID, tldr.EFETCH:
		status, message = http.StatusBadRequest, tldr.ErrorMessage(err)
		loggerFrom(r.Context(), s.Logger).Info("request rejected", append(attrs, "code", code, "err", err)...)
	default:
		loggerFrom(r.Context(), s.Logger).Error("summary failed", append(attrs, "code", code, "err", err)...)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}

type loggerKey struct{}

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}

// requestID tags each request with an ID, reusing the caller's when present,
// and stores a logger carrying it in the request context.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := s.Logger.With("request_id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))
	})
}

// logRequests logs one line per request once the response is finished.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func(begin time.Time) {
			loggerFrom(r.Context(), s.Logger).Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
			)
		}(time.Now())

		next.ServeHTTP(ww, r)
	})
}
