package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/akopian/portfolio/internal/config"
	"github.com/akopian/portfolio/internal/content"
	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/shell"
)

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	router   *chi.Mux
	catalog  *content.Catalog
	table    *i18n.Table
	registry *shell.Registry
	limiter  gate.Limiter
	language *LanguageMiddleware
	assets   http.Handler
}

// NewServer creates a new API server. staticDir is served under /assets/.
func NewServer(
	cfg config.ServerConfig,
	catalog *content.Catalog,
	table *i18n.Table,
	registry *shell.Registry,
	limiter gate.Limiter,
	staticDir string,
) *Server {
	if limiter == nil {
		limiter = gate.NoopLimiter{}
	}
	s := &Server{
		config:   cfg,
		catalog:  catalog,
		table:    table,
		registry: registry,
		limiter:  limiter,
		language: NewLanguageMiddleware(table),
		assets:   http.StripPrefix(assetsPrefix, http.FileServer(http.Dir(staticDir))),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Asset supplier for project screenshots and avatars
	r.Handle(assetsPrefix+"*", s.assets)

	timeout := middleware.Timeout(30 * time.Second)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(timeout, s.language.Resolve).Get("/content", s.handleGetContent)
		r.With(timeout, s.language.Resolve).Get("/languages", s.handleListLanguages)

		r.Route("/shells", func(r chi.Router) {
			r.With(timeout, s.language.Resolve).Post("/", s.handleCreateShell)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(s.loadShell)

				// The event stream is long-lived and must not inherit the request timeout
				r.Get("/events", s.handleShellEvents)

				r.Group(func(r chi.Router) {
					r.Use(timeout)

					r.Get("/", s.handleGetShell)
					r.Delete("/", s.handleDeleteShell)
					r.Put("/language", s.handleSetLanguage)

					r.Route("/gate", func(r chi.Router) {
						r.Post("/open", s.handleOpenGate)
						r.Post("/input", s.handleGateInput)
						r.With(s.throttleSubmit).Post("/submit", s.handleSubmitGate)
						r.Post("/close", s.handleCloseGate)
					})
				})
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
