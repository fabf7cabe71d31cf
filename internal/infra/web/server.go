package web

import (
	"net/http"
	"strings"

	"user-activity-analyzer/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the analysis results over a small admin API.
type Server struct {
	analyzer usecase.AnalyzerUseCase
	apiKey   string
	log      *zerolog.Logger
}

func NewServer(analyzer usecase.AnalyzerUseCase, apiKey string, logger *zerolog.Logger) *Server {
	srvLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		analyzer: analyzer,
		apiKey:   apiKey,
		log:      &srvLog,
	}
}

// Router builds the admin routes. Everything under /api/v1 is behind the
// bearer-key middleware; health and metrics are open.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/summary", s.summaryHandler())
		r.Get("/users/{id}", s.userHandler())
		r.Post("/analyze", s.analyzeHandler())
	})

	return r
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
