// Package server exposes the instruction parser and the notice builder
// over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coolbeans/regparser/pkg/amendment"
	"github.com/coolbeans/regparser/pkg/notice"
)

// DefaultMaxBodyBytes bounds request bodies. Notice XML is the largest
// payload; a full rule rarely exceeds a few megabytes.
const DefaultMaxBodyBytes = 16 << 20

// Server is the HTTP API server for regparser. Each request is parsed
// independently; no running context is shared between requests.
type Server struct {
	router       chi.Router
	parser       *amendment.Parser
	builder      *notice.Builder
	log          *slog.Logger
	cfrTitle     int
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithCFRTitle sets the CFR title recorded on notices parsed by the server.
func WithCFRTitle(cfrTitle int) Option {
	return func(s *Server) {
		s.cfrTitle = cfrTitle
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(maxBodyBytes int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = maxBodyBytes
	}
}

// NewServer creates and configures the HTTP server.
func NewServer(parser *amendment.Parser, builder *notice.Builder, log *slog.Logger, options ...Option) *Server {
	s := &Server{
		parser:       parser,
		builder:      builder,
		log:          log,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, option := range options {
		option(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/instructions/parse", s.handleParseInstruction)
		r.Post("/notices/parse", s.handleParseNotice)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
